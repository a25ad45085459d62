package models

import "errors"

var (
	// ErrSessionNotFound is returned when a session id does not match an
	// open session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoOpenSession is returned when an exit is attempted without a
	// matching open entry record.
	ErrNoOpenSession = errors.New("no open session")

	// ErrCardBusy is returned when an RFID card already has an open session.
	ErrCardBusy = errors.New("card busy")

	// ErrDuplicatePlate is returned when registering a plate that already
	// exists in registered_vehicles.
	ErrDuplicatePlate = errors.New("plate already registered")

	// ErrCameraUnavailable is returned when all capture attempts against a
	// camera endpoint were exhausted.
	ErrCameraUnavailable = errors.New("camera unavailable")
)
