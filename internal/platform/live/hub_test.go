package live

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skyhop/internal/games/skyhop"
	"github.com/vovakirdan/skyhop/internal/games/skyhop/sim"
)

var _ skyhop.Effects = (*Hub)(nil)
var _ skyhop.Observer = (*Hub)(nil)

func dial(t *testing.T, h *Hub, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("spectator never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestHubBroadcastsEvents(t *testing.T) {
	h := NewHub(nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time { return fixed }
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	conn := dial(t, h, srv)

	tests := []struct {
		ev   sim.Event
		want Message
	}{
		{sim.Event{Kind: sim.EventScore, Height: 42}, Message{Type: "score", Height: 42}},
		{sim.Event{Kind: sim.EventCheckpoint, Text: "cp-1", Height: 200}, Message{Type: "checkpoint", Text: "cp-1", Height: 200}},
		{sim.Event{Kind: sim.EventSound, Sound: sim.SoundJump}, Message{Type: "sound", Sound: "jump"}},
		{sim.Event{Kind: sim.EventCollect, Amount: 3}, Message{Type: "collect", Amount: 3}},
		{sim.Event{Kind: sim.EventModal, Text: "Magnet", Body: "pulls drops"}, Message{Type: "modal", Text: "Magnet", Body: "pulls drops"}},
	}
	for _, tt := range tests {
		h.Observe(tt.ev)
		got := readMessage(t, conn)
		if !got.Time.Equal(fixed) {
			t.Errorf("time = %v, want %v", got.Time, fixed)
		}
		got.Time = time.Time{}
		if got != tt.want {
			t.Errorf("Observe(%v) sent %+v, want %+v", tt.ev.Kind, got, tt.want)
		}
	}
}

func TestHubSkipsParticles(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	conn := dial(t, h, srv)

	h.Observe(sim.Event{Kind: sim.EventParticles, Count: 10})
	h.Observe(sim.Event{Kind: sim.EventVictory, Height: 10000})

	if msg := readMessage(t, conn); msg.Type != "victory" {
		t.Errorf("first message = %q, want victory", msg.Type)
	}
	if h.State().Events != 1 {
		t.Errorf("events = %d, particles should not count", h.State().Events)
	}
}

func TestHubDispatch(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	conn := dial(t, h, srv)

	skyhop.Dispatch([]sim.Event{{Kind: sim.EventScore, Height: 7}}, skyhop.MultiEffects{skyhop.NopEffects{}, h}, nil)
	if msg := readMessage(t, conn); msg.Type != "score" || msg.Height != 7 {
		t.Errorf("dispatched message = %+v", msg)
	}
}

func TestHubState(t *testing.T) {
	h := NewHub(nil)
	h.Observe(sim.Event{Kind: sim.EventScore, Height: 300})
	h.Observe(sim.Event{Kind: sim.EventScore, Height: 250})
	h.Observe(sim.Event{Kind: sim.EventCheckpoint, Height: 200})
	h.Observe(sim.Event{Kind: sim.EventCollect, Amount: 2})
	h.Observe(sim.Event{Kind: sim.EventCollect, Amount: 4})

	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got State
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := State{Height: 250, Best: 300, Checkpoints: 1, Collected: 6, Events: 5}
	if got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestHubDisconnect(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	conn := dial(t, h, srv)

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed spectator still registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.Observe(sim.Event{Kind: sim.EventScore, Height: 1})
}

func TestHubListenAndServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.ListenAndServe(ctx, addr) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/state")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server not up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
