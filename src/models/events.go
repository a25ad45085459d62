package models

// LogEvent is the realtime payload published for every lane decision so the
// dashboard can render it live.
type LogEvent struct {
	Plate      string `json:"plate"`
	Action     string `json:"action"`
	Status     string `json:"status"`
	Time       string `json:"time"`
	Image      string `json:"image,omitempty"`
	Fee        int64  `json:"fee"`
	TicketType string `json:"ticket_type"`
}

// SensorEvent is the realtime payload published when the slot sensor board
// reports occupancy.
type SensorEvent struct {
	Slots     []int   `json:"slots"`
	FreeSlots int     `json:"free_slots"`
	MQ135     float64 `json:"mq135"`
}
