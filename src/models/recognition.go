package models

// RecognitionStatus tags the outcome of one recognition attempt. Every
// outcome is a value; nothing throws across the capture/recognize boundary.
type RecognitionStatus string

const (
	RecognitionSuccess       RecognitionStatus = "SUCCESS"
	RecognitionNoDetection   RecognitionStatus = "NO_DETECTION"
	RecognitionOcrEmpty      RecognitionStatus = "OCR_EMPTY"
	RecognitionInvalidFormat RecognitionStatus = "INVALID_FORMAT"
	RecognitionModelNotReady RecognitionStatus = "AI_NOT_READY"
	RecognitionReadError     RecognitionStatus = "READ_ERR"
)

// Recognition is the result of running the detection+OCR pipeline over one
// captured frame. Plate is set only when Status is RecognitionSuccess.
type Recognition struct {
	Plate  string
	Status RecognitionStatus
}

// OK reports whether a canonical plate was read.
func (r Recognition) OK() bool {
	return r.Status == RecognitionSuccess
}
