package models

import "time"

// SessionStatus represents the status of a parking session
type SessionStatus string

const (
	StatusIn     SessionStatus = "IN"
	StatusOut    SessionStatus = "OUT"
	StatusDenied SessionStatus = "DENIED"
)

// UnknownPlate is the sentinel stored when no plate could be read.
const UnknownPlate = "UNKNOWN"

// ParkingSession represents one entry/exit cycle in the parking_log table.
// Sessions are created on entry and closed (exit_time, fee, status OUT) on
// exit; they are never deleted.
type ParkingSession struct {
	ID        int64         `json:"id"`
	Plate     string        `json:"plate"`
	RFIDUid   string        `json:"rfid_uid,omitempty"`
	EntryTime time.Time     `json:"entry_time"`
	ExitTime  *time.Time    `json:"exit_time,omitempty"`
	Fee       *int64        `json:"fee,omitempty"`
	ImagePath string        `json:"image_path"`
	Status    SessionStatus `json:"status"`
}

// Open reports whether the vehicle is still on-site.
func (s *ParkingSession) Open() bool {
	return s.Status == StatusIn
}
