package models

// GateCommand is a command queued for the gate actuator.
type GateCommand string

const (
	CommandOpenEntry GateCommand = "OPEN_ENTRY"
	CommandOpenExit  GateCommand = "OPEN_EXIT"

	// CommandNone is returned to a polling actuator when the queue is empty.
	CommandNone GateCommand = "none"
)
