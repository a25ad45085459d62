package controller

import (
	"net/http"
	"strings"

	"github.com/Ngo-Miingg/Parking-Smart/src/schemas"
	"github.com/Ngo-Miingg/Parking-Smart/src/service"
	"github.com/Ngo-Miingg/Parking-Smart/src/utils"

	"github.com/gin-gonic/gin"
)

// ParkingController exposes the camera and RFID lane endpoints.
type ParkingController struct {
	Service *service.AccessService
}

func NewParkingController(svc *service.AccessService) *ParkingController {
	return &ParkingController{
		Service: svc,
	}
}

// Lane runs the camera-based entry/exit flow for POST /api/parking/:action.
func (pc *ParkingController) Lane(ctx *gin.Context) {
	var (
		decision *service.Decision
		err      error
	)

	switch ctx.Param("action") {
	case "entry":
		decision, err = pc.Service.EntryByPlate(ctx.Request.Context())
	case "exit":
		decision, err = pc.Service.ExitByPlate(ctx.Request.Context())
	default:
		utils.SendError(ctx, http.StatusBadRequest, "unknown action")
		return
	}

	if err != nil {
		utils.SendError(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	writeDecision(ctx, decision)
}

// RFID runs the card-based entry/exit flow for POST /api/rfid/:action.
func (pc *ParkingController) RFID(ctx *gin.Context) {
	var req schemas.RFIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.SendError(ctx, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		utils.SendError(ctx, http.StatusBadRequest, "uid is required")
		return
	}

	var (
		decision *service.Decision
		err      error
	)

	switch ctx.Param("action") {
	case "entry":
		decision, err = pc.Service.EntryByRFID(ctx.Request.Context(), uid)
	case "exit":
		decision, err = pc.Service.ExitByRFID(ctx.Request.Context(), uid)
	default:
		utils.SendError(ctx, http.StatusBadRequest, "unknown action")
		return
	}

	if err != nil {
		utils.SendError(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	writeDecision(ctx, decision)
}

func writeDecision(ctx *gin.Context, d *service.Decision) {
	ctx.JSON(decisionStatusCode(d), schemas.LaneResponse{
		Status: d.Status,
		Action: d.Action,
		Plate:  d.Plate,
		UID:    d.UID,
		Fee:    d.Fee,
		Msg:    d.Msg,
	})
}

// decisionStatusCode maps a gate decision to its HTTP status, preserving the
// codes the hardware clients already key on.
func decisionStatusCode(d *service.Decision) int {
	if d.Status == service.StatusOK {
		return http.StatusOK
	}
	switch {
	case d.Msg == service.MsgCameraFailed:
		return http.StatusInternalServerError
	case d.Msg == service.MsgCardBusy:
		return http.StatusBadRequest
	case d.Msg == service.MsgNoEntryRecord, d.Msg == service.MsgCardNotInside:
		return http.StatusNotFound
	case strings.HasPrefix(d.Msg, "Mismatch"):
		return http.StatusForbidden
	default:
		return http.StatusForbidden
	}
}
