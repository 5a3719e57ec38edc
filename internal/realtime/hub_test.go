package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitFor polls until cond holds or a second passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := 1
		if r.URL.Query().Get("user") == "2" {
			userID = 2
		}
		hub.Serve(w, r, userID)
	}))
	defer srv.Close()

	alice := dial(t, srv)
	bob, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?user=2", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer bob.Close()
	waitFor(t, func() bool { return hub.Connections(1) == 1 && hub.Connections(2) == 1 })

	hub.Broadcast(1, EventFoodEntryAdded, map[string]int{"entry_id": 7})

	var ev struct {
		Kind    string         `json:"kind"`
		UserID  int            `json:"user_id"`
		Payload map[string]int `json:"payload"`
	}
	alice.SetReadDeadline(time.Now().Add(time.Second))
	if err := alice.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != EventFoodEntryAdded || ev.UserID != 1 || ev.Payload["entry_id"] != 7 {
		t.Errorf("event = %+v", ev)
	}

	bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := bob.ReadMessage(); err == nil {
		t.Error("bob should not receive alice's event")
	}
}

func TestHub_UnregisterOnClientClose(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, 5)
	}))
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return hub.Connections(5) == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Connections(5) == 0 })
}

func TestHub_NilBroadcastIsNoop(t *testing.T) {
	var hub *Hub
	hub.Broadcast(1, EventDailyLogUpdated, nil)
}
