package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"
	"github.com/Ngo-Miingg/Parking-Smart/src/recognizer"
	"github.com/Ngo-Miingg/Parking-Smart/src/repository"
	"github.com/Ngo-Miingg/Parking-Smart/src/schemas"
	"github.com/Ngo-Miingg/Parking-Smart/src/utils"

	"github.com/gin-gonic/gin"
)

const historyDefaultLimit = 50

// AdminController exposes the data-management endpoints: session history and
// the registered-vehicle list.
type AdminController struct {
	Sessions *repository.SessionRepository
	Vehicles *repository.VehicleRepository
}

func NewAdminController(sessions *repository.SessionRepository, vehicles *repository.VehicleRepository) *AdminController {
	return &AdminController{
		Sessions: sessions,
		Vehicles: vehicles,
	}
}

// History lists parking sessions for GET /api/history, optionally filtered by
// ?start=YYYY-MM-DD&end=YYYY-MM-DD on entry time.
func (ac *AdminController) History(ctx *gin.Context) {
	var startPtr, endPtr *time.Time

	startStr := ctx.Query("start")
	endStr := ctx.Query("end")
	if startStr != "" && endStr != "" {
		start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
		if err != nil {
			utils.SendError(ctx, http.StatusBadRequest, "invalid start date")
			return
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
		if err != nil {
			utils.SendError(ctx, http.StatusBadRequest, "invalid end date")
			return
		}
		// Cover the whole end day: [start 00:00:00, end 23:59:59].
		end = end.Add(24*time.Hour - time.Second)
		startPtr, endPtr = &start, &end
	}

	sessions, err := ac.Sessions.History(ctx.Request.Context(), startPtr, endPtr, historyDefaultLimit)
	if err != nil {
		utils.SendError(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, sessions)
}

// ListRegistered lists monthly vehicles for GET /api/registered.
func (ac *AdminController) ListRegistered(ctx *gin.Context) {
	vehicles, err := ac.Vehicles.List(ctx.Request.Context())
	if err != nil {
		utils.SendError(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, vehicles)
}

// AddRegistered registers a monthly vehicle for POST /api/registered. The
// plate is canonicalized before storage; a duplicate is rejected with no
// partial write.
func (ac *AdminController) AddRegistered(ctx *gin.Context) {
	var req schemas.RegisterVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.SendError(ctx, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}

	plate, ok := recognizer.NormalizePlate(req.Plate)
	if !ok {
		utils.SendError(ctx, http.StatusBadRequest, "Invalid Plate")
		return
	}

	_, err := ac.Vehicles.Create(ctx.Request.Context(), models.RegisteredVehicle{
		Plate:       plate,
		Owner:       req.Owner,
		VehicleType: req.Type,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicatePlate) {
			utils.SendError(ctx, http.StatusBadRequest, "Plate exists")
			return
		}
		utils.SendError(ctx, http.StatusInternalServerError, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, schemas.StatusResponse{Status: "ok"})
}

// DeleteRegistered removes a monthly vehicle for DELETE /api/registered/:plate.
func (ac *AdminController) DeleteRegistered(ctx *gin.Context) {
	if err := ac.Vehicles.Delete(ctx.Request.Context(), ctx.Param("plate")); err != nil {
		utils.SendError(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, schemas.StatusResponse{Status: "ok"})
}
