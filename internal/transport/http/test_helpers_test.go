package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sdchat/sdchat-server/internal/auth"
	"github.com/sdchat/sdchat-server/internal/config"
	"github.com/sdchat/sdchat-server/internal/core"
	"github.com/sdchat/sdchat-server/internal/store/sqlite"
)

// startTestServer wires an in-memory store, auth service, and broker
// behind an httptest server.
func startTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()

	logger := zerolog.Nop()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})

	broker := core.NewBroker(&logger, 0)

	server := NewServer(broker, authService, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, authService
}
