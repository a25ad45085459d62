package schemas

import "github.com/Ngo-Miingg/Parking-Smart/src/models"

// StatusResponse is the generic ok/error envelope for control and admin
// endpoints.
type StatusResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg,omitempty"`
}

// CommandResponse is returned to a polling gate actuator.
type CommandResponse struct {
	Command models.GateCommand `json:"command"`
}

// RegisterVehicleRequest represents the body for registering a monthly
// vehicle.
type RegisterVehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
	Owner string `json:"owner"`
	Type  string `json:"type"`
}

// SensorUpdateRequest is the slot-sensor board report.
type SensorUpdateRequest struct {
	S1    int     `json:"s1"`
	S2    int     `json:"s2"`
	S3    int     `json:"s3"`
	S4    int     `json:"s4"`
	MQ135 float64 `json:"mq135"`
}
