package controller

import (
	"net/http"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"
	"github.com/Ngo-Miingg/Parking-Smart/src/schemas"
	"github.com/Ngo-Miingg/Parking-Smart/src/service"
	"github.com/Ngo-Miingg/Parking-Smart/src/utils"

	"github.com/gin-gonic/gin"
)

// SensorController ingests slot-sensor board reports and republishes them to
// the realtime feed.
type SensorController struct {
	Notifier service.Notifier
}

func NewSensorController(notifier service.Notifier) *SensorController {
	return &SensorController{
		Notifier: notifier,
	}
}

// UpdateData handles POST /api/update_data from the sensor board.
func (sc *SensorController) UpdateData(ctx *gin.Context) {
	var req schemas.SensorUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.SendError(ctx, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}

	slots := []int{req.S1, req.S2, req.S3, req.S4}
	free := 0
	for _, s := range slots {
		if s == 0 {
			free++
		}
	}

	sc.Notifier.Publish("sensor_update", models.SensorEvent{
		Slots:     slots,
		FreeSlots: free,
		MQ135:     req.MQ135,
	})

	ctx.JSON(http.StatusOK, schemas.StatusResponse{Status: "ok"})
}
