package router

import (
	"github.com/Ngo-Miingg/Parking-Smart/logger"
	"github.com/Ngo-Miingg/Parking-Smart/src/controller"
	"github.com/Ngo-Miingg/Parking-Smart/src/gate"
	"github.com/Ngo-Miingg/Parking-Smart/src/middleware"
	"github.com/Ngo-Miingg/Parking-Smart/src/repository"
	"github.com/Ngo-Miingg/Parking-Smart/src/service"

	"github.com/gin-gonic/gin"
)

// Deps holds everything the route handlers need.
type Deps struct {
	Access     *service.AccessService
	Queue      *gate.CommandQueue
	Sessions   *repository.SessionRepository
	Vehicles   *repository.VehicleRepository
	Notifier   service.Notifier
	CaptureDir string
}

// NewRouter sets up the gin engine with all routes and middleware.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger.Logger), gin.Recovery())

	parking := controller.NewParkingController(deps.Access)
	control := controller.NewControlController(deps.Queue)
	admin := controller.NewAdminController(deps.Sessions, deps.Vehicles)
	sensor := controller.NewSensorController(deps.Notifier)

	api := router.Group("/api")
	{
		api.POST("/parking/:action", parking.Lane)
		api.POST("/rfid/:action", parking.RFID)

		api.POST("/control/:action", control.ManualControl)
		api.GET("/get_command", control.GetCommand)

		api.GET("/history", admin.History)
		api.GET("/registered", admin.ListRegistered)
		api.POST("/registered", admin.AddRegistered)
		api.DELETE("/registered/:plate", admin.DeleteRegistered)

		api.POST("/update_data", sensor.UpdateData)
	}

	// Evidence images for the dashboard.
	router.Static("/captures", deps.CaptureDir)

	return router
}
