package service

import (
	"context"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"
)

// SessionStore is the record-store contract the access controller consumes.
// Implemented by repository.SessionRepository; tests substitute an in-memory
// store.
type SessionStore interface {
	FindOpenByPlate(ctx context.Context, plate string) (*models.ParkingSession, error)
	FindOpenByUid(ctx context.Context, uid string) (*models.ParkingSession, error)
	IsRegistered(ctx context.Context, plate string) (bool, error)
	CreateSession(ctx context.Context, session models.ParkingSession) (*models.ParkingSession, error)
	CloseSession(ctx context.Context, id int64, exitTime time.Time, fee int64) error
}

// Capturer fetches one frame from a camera endpoint.
type Capturer interface {
	Capture(ctx context.Context, endpoint string) ([]byte, error)
}

// EvidenceSaver persists a captured frame for audit and returns its path.
type EvidenceSaver interface {
	Save(label string, img []byte) (string, error)
}

// Recognizer turns a frame into a recognition outcome.
type Recognizer interface {
	Ready() bool
	Recognize(ctx context.Context, img []byte) models.Recognition
}

// Notifier receives decision/audit events for live display. Fire and forget:
// implementations must never block or fail the decision path.
type Notifier interface {
	Publish(event string, payload any)
}

// NopNotifier discards events; used when RabbitMQ is not configured.
type NopNotifier struct{}

func (NopNotifier) Publish(string, any) {}
