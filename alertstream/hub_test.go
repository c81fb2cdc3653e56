package alertstream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"tripwatch/globals"
	"tripwatch/middleware"
	"tripwatch/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "dest1",
	}

	hub.register <- client

	out := outboundPayload{Action: "alert", DestinationID: "dest1"}
	data, _ := json.Marshal(out)
	hub.broadcast <- broadcastMsg{Room: "dest1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestPushAlertReachesRoomOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	paris := &Client{Send: make(chan []byte, 10), Room: "paris"}
	berlin := &Client{Send: make(chan []byte, 10), Room: "berlin"}
	hub.register <- paris
	hub.register <- berlin

	hub.PushAlert("paris", models.Alert{AlertID: "a1", Title: "Metro strike", Severity: models.SeverityMedium})

	select {
	case got := <-paris.Send:
		var out outboundPayload
		if err := json.Unmarshal(got, &out); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if out.Alert.AlertID != "a1" || out.DestinationID != "paris" {
			t.Fatalf("unexpected payload: %+v", out)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for alert")
	}

	select {
	case got := <-berlin.Send:
		t.Fatalf("berlin room should not receive paris alert, got %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebSocketHandlerRejectsMissingToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	router := httprouter.New()
	router.GET("/ws/alerts/:destinationid", WebSocketHandler(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts/paris"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected the handshake to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestWebSocketHandlerAcceptsQueryToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	router := httprouter.New()
	router.GET("/ws/alerts/:destinationid", WebSocketHandler(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	claims := &middleware.Claims{
		Username: "traveler",
		UserID:   "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts/paris?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("expected the handshake to succeed with a valid token: %v", err)
	}
	defer conn.Close()

	// The handler registers the client after the handshake completes.
	time.Sleep(50 * time.Millisecond)
	hub.PushAlert("paris", models.Alert{AlertID: "a1", Title: "Metro strike", Severity: models.SeverityMedium})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read pushed alert: %v", err)
	}
	var out outboundPayload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if out.Alert.AlertID != "a1" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}
