package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastDropsForFullClients(t *testing.T) {
	h := NewHub()
	fast := NewClient(4)
	slow := NewClient(1)
	h.Register(fast)
	h.Register(slow)

	h.Broadcast("timer", map[string]int{"n": 1})
	h.Broadcast("timer", map[string]int{"n": 2})

	assert.Len(t, fast.Send, 2)
	assert.Len(t, slow.Send, 1)

	var msg Message
	require.NoError(t, json.Unmarshal(<-fast.Send, &msg))
	assert.Equal(t, "timer", msg.Type)
}

func TestHub_CloseUnregisters(t *testing.T) {
	h := NewHub()
	c := NewClient(1)
	h.Register(c)
	assert.Equal(t, 1, h.ClientCount())

	c.Close()
	c.Close()
	assert.Equal(t, 0, h.ClientCount())
	h.Broadcast("timer", nil)
}

func TestNewUpgrader_CheckOrigin(t *testing.T) {
	up := NewUpgrader([]string{"https://kyp.example"})
	req := httptest.NewRequest(http.MethodGet, "/ws/timer", nil)

	req.Header.Set("Origin", "https://kyp.example")
	assert.True(t, up.CheckOrigin(req))
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, up.CheckOrigin(req))

	assert.True(t, NewUpgrader(nil).CheckOrigin(req))
}

func TestHub_Serve(t *testing.T) {
	h := NewHub()
	up := NewUpgrader(nil)
	initial, err := Encode("timer", map[string]bool{"isOpen": true})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(conn, initial)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"timer","data":{"isOpen":true}}`, string(data))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	h.Broadcast("timer", map[string]bool{"isOpen": false})

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"timer","data":{"isOpen":false}}`, string(data))

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
