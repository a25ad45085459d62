package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ngo-Miingg/Parking-Smart/logger"
	"github.com/Ngo-Miingg/Parking-Smart/src/gate"
	"github.com/Ngo-Miingg/Parking-Smart/src/schemas"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("error")
}

func controlRouter(queue *gate.CommandQueue) *gin.Engine {
	r := gin.New()
	cc := NewControlController(queue)
	r.POST("/api/control/:action", cc.ManualControl)
	r.GET("/api/get_command", cc.GetCommand)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pollCommand(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doRequest(t, r, http.MethodGet, "/api/get_command", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp schemas.CommandResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return string(resp.Command)
}

func TestManualControlAndPolling(t *testing.T) {
	r := controlRouter(gate.NewCommandQueue())

	w := doRequest(t, r, http.MethodPost, "/api/control/open_entry", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodPost, "/api/control/open_exit", "")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "OPEN_ENTRY", pollCommand(t, r))
	assert.Equal(t, "OPEN_EXIT", pollCommand(t, r))
	assert.Equal(t, "none", pollCommand(t, r))
}

func TestManualControlUnknownAction(t *testing.T) {
	r := controlRouter(gate.NewCommandQueue())

	w := doRequest(t, r, http.MethodPost, "/api/control/self_destruct", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRFIDRequiresUID(t *testing.T) {
	r := gin.New()
	pc := NewParkingController(nil)
	r.POST("/api/rfid/:action", pc.RFID)

	w := doRequest(t, r, http.MethodPost, "/api/rfid/entry", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/rfid/entry", `{"uid":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
