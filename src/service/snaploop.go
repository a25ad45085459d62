package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/sirupsen/logrus"
)

// PlateAcquirer produces a plate reading and an evidence image path for one
// lane event.
type PlateAcquirer interface {
	AcquirePlate(ctx context.Context, endpoint, label string) (plate string, imagePath string)
}

// SnapRecognizeLoop orchestrates repeated capture+recognize rounds against
// one camera, stopping at the first readable plate.
type SnapRecognizeLoop struct {
	capturer   Capturer
	evidence   EvidenceSaver
	recognizer Recognizer
	log        *logrus.Logger

	// MaxRounds bounds the capture+recognize rounds; RoundPause is the wait
	// between rounds that lets a vehicle drift into better framing.
	MaxRounds  int
	RoundPause time.Duration
}

// NewSnapRecognizeLoop creates the loop with its defaults: 3 rounds, 200ms
// pause between rounds.
func NewSnapRecognizeLoop(capturer Capturer, evidence EvidenceSaver, recognizer Recognizer, log *logrus.Logger) *SnapRecognizeLoop {
	return &SnapRecognizeLoop{
		capturer:   capturer,
		evidence:   evidence,
		recognizer: recognizer,
		log:        log,
		MaxRounds:  3,
		RoundPause: 200 * time.Millisecond,
	}
}

// AcquirePlate runs up to MaxRounds capture+recognize rounds and returns the
// first plate read, with the path of the frame it was read from. Every
// successful capture is persisted round-tagged before recognition, and the
// last saved path is returned even when no round yields a plate: downstream
// flows must still record an audit image. A failed capture skips recognition
// and moves to the next round. When the recognizer is not ready no capture
// happens at all; there is nothing a frame could be recognized with.
func (l *SnapRecognizeLoop) AcquirePlate(ctx context.Context, endpoint, label string) (string, string) {
	lastPath := ""

	if !l.recognizer.Ready() {
		l.log.Warn("recognition models not ready, skipping capture")
		return models.UnknownPlate, lastPath
	}

	for round := 1; round <= l.MaxRounds; round++ {
		img, err := l.capturer.Capture(ctx, endpoint)
		if err != nil {
			l.log.WithField("round", round).Warnf("capture round failed: %v", err)
		} else {
			path, saveErr := l.evidence.Save(fmt.Sprintf("%s_shot%d", label, round), img)
			if saveErr != nil {
				l.log.Warnf("failed to persist evidence image: %v", saveErr)
			} else {
				lastPath = path
			}

			rec := l.recognizer.Recognize(ctx, img)
			if rec.OK() {
				l.log.WithFields(logrus.Fields{
					"plate": rec.Plate,
					"round": round,
				}).Info("plate recognized")
				return rec.Plate, lastPath
			}
			l.log.WithFields(logrus.Fields{
				"round":  round,
				"status": rec.Status,
			}).Info("recognition round failed")
		}

		if round < l.MaxRounds {
			select {
			case <-time.After(l.RoundPause):
			case <-ctx.Done():
				return models.UnknownPlate, lastPath
			}
		}
	}

	return models.UnknownPlate, lastPath
}
