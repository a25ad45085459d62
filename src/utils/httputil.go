package utils

import (
	"github.com/Ngo-Miingg/Parking-Smart/logger"
	"github.com/Ngo-Miingg/Parking-Smart/src/schemas"

	"github.com/gin-gonic/gin"
)

// SendError writes the standard error envelope and logs the failure.
func SendError(c *gin.Context, status int, msg string) {
	c.JSON(status, schemas.StatusResponse{Status: "error", Msg: msg})
	logger.Logger.Errorf("%s %s: %s", c.Request.Method, c.FullPath(), msg)
}
