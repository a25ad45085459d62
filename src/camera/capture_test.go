package camera

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Ngo-Miingg/Parking-Smart/src/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointOf(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func testClient() *Client {
	c := NewClient(logrus.New())
	c.RetryPause = 0
	return c
}

func TestCaptureFirstAttemptSucceeds(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		require.Equal(t, "/capture", r.URL.Path)
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	img, err := testClient().Capture(context.Background(), endpointOf(srv))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), img)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "first 200 must abort remaining attempts")
}

func TestCaptureRetriesThenSucceeds(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("late-frame"))
	}))
	defer srv.Close()

	img, err := testClient().Capture(context.Background(), endpointOf(srv))
	require.NoError(t, err)
	assert.Equal(t, []byte("late-frame"), img)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCaptureAllAttemptsExhausted(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient().Capture(context.Background(), endpointOf(srv))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCameraUnavailable)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCaptureUnreachableCamera(t *testing.T) {
	_, err := testClient().Capture(context.Background(), "127.0.0.1:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCameraUnavailable)
}
