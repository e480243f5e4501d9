package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/okunev/pingchat-server/internal/auth"
	"github.com/okunev/pingchat-server/internal/config"
	"github.com/okunev/pingchat-server/internal/core"
	"github.com/okunev/pingchat-server/internal/proto"
	"github.com/okunev/pingchat-server/internal/store"
	"github.com/okunev/pingchat-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with the real schema.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// startTestServer wires store, auth and core into an httptest server.
func startTestServer(t *testing.T) (*httptest.Server, store.Store, *auth.Service) {
	t.Helper()

	st := createTestStore(t)

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	disabledLogger := zerolog.New(nil)
	registry := core.NewRegistry()
	sessions := core.NewSessionManager(registry, &disabledLogger)
	router := core.NewRouter(registry, sessions, st, st, &disabledLogger)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(sessions, router, authService, st, cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st, authService
}

// testOutbound mirrors proto.Outbound with raw data for test-side decoding.
type testOutbound struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", msgType, err)
	}
}

// readUntilType reads outbound frames until one of the wanted type arrives.
func readUntilType(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string) testOutbound {
	t.Helper()

	for {
		var outbound testOutbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read outbound waiting for %s: %v", msgType, err)
		}
		if outbound.Type == msgType {
			return outbound
		}
	}
}
