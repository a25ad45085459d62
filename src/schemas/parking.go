package schemas

// LaneResponse is the response for camera and RFID lane events.
type LaneResponse struct {
	Status string `json:"status"`
	Action string `json:"action"`
	Plate  string `json:"plate,omitempty"`
	UID    string `json:"uid,omitempty"`
	Fee    *int64 `json:"fee,omitempty"`
	Msg    string `json:"msg,omitempty"`
}

// RFIDRequest represents the body of a card tap forwarded by the reader.
type RFIDRequest struct {
	UID string `json:"uid" binding:"required"`
}
