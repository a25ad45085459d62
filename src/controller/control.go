package controller

import (
	"net/http"

	"github.com/Ngo-Miingg/Parking-Smart/logger"
	"github.com/Ngo-Miingg/Parking-Smart/src/gate"
	"github.com/Ngo-Miingg/Parking-Smart/src/models"
	"github.com/Ngo-Miingg/Parking-Smart/src/schemas"
	"github.com/Ngo-Miingg/Parking-Smart/src/utils"

	"github.com/gin-gonic/gin"
)

// ControlController exposes the admin manual-control and actuator-polling
// endpoints around the gate command queue.
type ControlController struct {
	Queue *gate.CommandQueue
}

func NewControlController(queue *gate.CommandQueue) *ControlController {
	return &ControlController{
		Queue: queue,
	}
}

// ManualControl enqueues a gate command for POST /api/control/:action.
func (cc *ControlController) ManualControl(ctx *gin.Context) {
	switch ctx.Param("action") {
	case "open_entry":
		cc.Queue.Enqueue(models.CommandOpenEntry)
		logger.Logger.Info("manual command queued: OPEN_ENTRY")
		ctx.JSON(http.StatusOK, schemas.StatusResponse{Status: "ok", Msg: "Opening ENTRY gate..."})
	case "open_exit":
		cc.Queue.Enqueue(models.CommandOpenExit)
		logger.Logger.Info("manual command queued: OPEN_EXIT")
		ctx.JSON(http.StatusOK, schemas.StatusResponse{Status: "ok", Msg: "Opening EXIT gate..."})
	default:
		utils.SendError(ctx, http.StatusBadRequest, "unknown command")
	}
}

// GetCommand hands the oldest pending command to the polling actuator for
// GET /api/get_command. Delivery is destructive; an empty queue answers the
// none sentinel.
func (cc *ControlController) GetCommand(ctx *gin.Context) {
	cmd, ok := cc.Queue.Dequeue()
	if !ok {
		ctx.JSON(http.StatusOK, schemas.CommandResponse{Command: models.CommandNone})
		return
	}
	ctx.JSON(http.StatusOK, schemas.CommandResponse{Command: cmd})
}
