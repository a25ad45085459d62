package recognizer

import (
	"bytes"
	"context"
	"image"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// Allowlist restricts OCR to the characters that can appear on a plate.
const Allowlist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ.-"

// upscaleFactor is applied to the plate crop before OCR. Undersized crops are
// the dominant OCR failure mode, so this step is not optional.
const upscaleFactor = 3

// Recognizer turns a captured frame into a canonical plate, or a typed
// failure. It wraps the external detection and OCR capabilities; a recognizer
// constructed without both reports not-ready and short-circuits every call,
// so callers can skip capture rounds that could never produce a plate.
type Recognizer struct {
	det Detector
	ocr OCR
	log *logrus.Logger
}

// New creates a recognizer. Either dependency may be nil, which yields a
// permanently not-ready recognizer rather than an error: the gate must keep
// operating (with UNKNOWN plates) when the model services are down at boot.
func New(det Detector, ocr OCR, log *logrus.Logger) *Recognizer {
	return &Recognizer{det: det, ocr: ocr, log: log}
}

// Ready reports whether the detection and OCR capabilities are wired.
func (r *Recognizer) Ready() bool {
	return r.det != nil && r.ocr != nil
}

// Recognize runs the full pipeline over one JPEG frame:
// detect -> best box -> crop -> 3x upscale -> grayscale+blur -> OCR ->
// normalize. Every failure is a tagged value, never an error.
func (r *Recognizer) Recognize(ctx context.Context, img []byte) models.Recognition {
	if !r.Ready() {
		return models.Recognition{Status: models.RecognitionModelNotReady}
	}

	frame, err := imaging.Decode(bytes.NewReader(img))
	if err != nil {
		r.log.Warnf("failed to decode frame: %v", err)
		return models.Recognition{Status: models.RecognitionReadError}
	}

	boxes, err := r.det.Detect(ctx, img)
	if err != nil {
		r.log.Warnf("detector call failed: %v", err)
		return models.Recognition{Status: models.RecognitionReadError}
	}
	if len(boxes) == 0 {
		return models.Recognition{Status: models.RecognitionNoDetection}
	}

	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Confidence > best.Confidence {
			best = b
		}
	}

	prepared, err := preparePlateCrop(frame, best)
	if err != nil {
		r.log.Warnf("failed to prepare plate crop: %v", err)
		return models.Recognition{Status: models.RecognitionReadError}
	}

	tokens, err := r.ocr.Read(ctx, prepared, Allowlist)
	if err != nil {
		r.log.Warnf("ocr call failed: %v", err)
		return models.Recognition{Status: models.RecognitionReadError}
	}
	if len(tokens) == 0 {
		return models.Recognition{Status: models.RecognitionOcrEmpty}
	}

	// Tokens concatenate in detection order: ["76A", "222.22"] -> "76A222.22"
	raw := ""
	for _, t := range tokens {
		raw += t
	}

	plate, ok := NormalizePlate(raw)
	if !ok {
		r.log.Infof("ocr text %q failed normalization", raw)
		return models.Recognition{Status: models.RecognitionInvalidFormat}
	}

	return models.Recognition{Plate: plate, Status: models.RecognitionSuccess}
}

// preparePlateCrop crops the frame to the detected box, upscales it with
// smooth resampling, converts to grayscale and applies a light blur to
// suppress sensor noise, then re-encodes for the OCR service.
func preparePlateCrop(frame image.Image, box Box) ([]byte, error) {
	rect := image.Rect(box.X1, box.Y1, box.X2, box.Y2)
	crop := imaging.Crop(frame, rect)

	w := crop.Bounds().Dx() * upscaleFactor
	h := crop.Bounds().Dy() * upscaleFactor
	scaled := imaging.Resize(crop, w, h, imaging.CatmullRom)

	gray := imaging.Grayscale(scaled)
	gray = imaging.Blur(gray, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
