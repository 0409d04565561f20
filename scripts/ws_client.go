// Package main runs a demo client for the optimize WebSocket stream: it
// sends one routing request and prints progress frames until the result.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type     string          `json:"type"`
	Progress json.RawMessage `json:"progress,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/optimize/ws"}
	hdr := http.Header{}
	if token := os.Getenv("API_TOKEN"); token != "" {
		hdr.Set("Authorization", "Bearer "+token)
	}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	req := map[string]any{
		"pickup": map[string]any{
			"address": "Warehouse", "zipcode": "400001",
			"lat": 18.9356, "lng": 72.8376,
			"start_time": "09:00", "end_time": "18:00",
		},
		"settings": map[string]any{
			"return_to_origin":   true,
			"vehicle_speed_kmph": 40,
			"time_budget_ms":     2000,
		},
		"deliveries": []map[string]any{
			{
				"address": "Fort", "zipcode": "400002",
				"lat": 18.9447, "lng": 72.8235, "priority": 1,
				"time_window": map[string]string{"start": "10:00", "end": "13:00"},
			},
			{
				"address": "Colaba", "zipcode": "400005",
				"lat": 18.9067, "lng": 72.8147, "priority": 2,
				"time_window": map[string]string{"start": "11:00", "end": "16:00"},
			},
			{
				"address": "Dadar", "zipcode": "400014",
				"lat": 19.0178, "lng": 72.8478, "priority": 3,
				"time_window": map[string]string{"start": "09:00", "end": "18:00"},
			},
		},
	}
	if err := c.WriteJSON(req); err != nil {
		log.Fatal("send:", err)
	}

	for {
		var m wsMessage
		if err := c.ReadJSON(&m); err != nil {
			log.Fatalf("read: %v", err)
		}
		switch m.Type {
		case "progress":
			log.Printf("progress: %s", string(m.Progress))
		case "result":
			log.Printf("result: %s", string(m.Result))
			return
		case "error":
			log.Fatalf("error: %s", m.Error)
		default:
			log.Printf("unknown frame type %q", m.Type)
		}
	}
}
