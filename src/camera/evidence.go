package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EvidenceStore persists captured frames for audit. Every frame handed to a
// lane decision is saved here regardless of recognition outcome.
type EvidenceStore struct {
	dir string
}

// NewEvidenceStore creates the capture directory if needed.
func NewEvidenceStore(dir string) (*EvidenceStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	return &EvidenceStore{dir: dir}, nil
}

// Dir returns the directory evidence images are written to.
func (s *EvidenceStore) Dir() string {
	return s.dir
}

// Save writes one JPEG under a label+timestamp name and returns its path.
// A short random suffix keeps same-second shots of the same label distinct.
func (s *EvidenceStore) Save(label string, img []byte) (string, error) {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	filename := fmt.Sprintf("%s_%s_%s.jpg", label, time.Now().Format("20060102_150405"), suffix)
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, img, 0o644); err != nil {
		return "", fmt.Errorf("failed to save evidence image: %w", err)
	}
	return path, nil
}
