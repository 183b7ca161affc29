package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStreamServer(t *testing.T, hub *Hub) string {
	t.Helper()
	router := gin.New()
	router.GET("/stream", hub.ServeWS)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
}

func TestPublishReachesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(newStreamServer(t, hub), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Let the registration land before publishing
	time.Sleep(100 * time.Millisecond)

	hub.Publish(&models.Message{ID: 1, UserID: 2, Text: "live warble", CreatedAt: time.Now()})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "live warble")
}

func TestConnectAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	conn, _, err := websocket.DefaultDialer.Dial(newStreamServer(t, hub), nil)
	require.NoError(t, err)
	defer conn.Close()

	// The stopped hub drops the connection instead of parking the handler
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
