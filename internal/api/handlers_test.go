package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"renogyfleet/internal/buffer"
	"renogyfleet/internal/collector"
	"renogyfleet/internal/health"
)

type noopTransport struct{ failWrites bool }

func (n *noopTransport) ReadHoldingRegisters(ctx context.Context, slave byte, startAddr, quantity uint16) ([]byte, error) {
	return make([]byte, 2*quantity), nil
}

func (n *noopTransport) WriteSingleRegister(ctx context.Context, slave byte, addr, value uint16) error {
	if n.failWrites {
		return errWrite
	}
	return nil
}

func (n *noopTransport) WriteMultipleRegisters(ctx context.Context, slave byte, startAddr uint16, values []uint16) error {
	if n.failWrites {
		return errWrite
	}
	return nil
}

func (n *noopTransport) SendCustom(ctx context.Context, slave byte, fc byte, payload []byte) ([]byte, error) {
	return nil, nil
}

func (n *noopTransport) Close() error { return nil }

var errWrite = &writeError{}

type writeError struct{}

func (e *writeError) Error() string { return "simulated write failure" }

func newTestRouter(fleet *collector.Fleet) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(fleet, health.NewHealthService())
	router := gin.New()
	router.GET("/health", h.HealthCheck)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/fleet", h.GetFleetSummary)
		v1.GET("/batteries/:id", h.GetBatterySnapshot)
		v1.POST("/batteries/:id/control", h.ControlBattery)
	}
	return router
}

func TestHealthCheckHealthyWithNoCheckers(t *testing.T) {
	router := newTestRouter(collector.NewFleetFromPollers())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
}

func TestGetBatterySnapshotNotFound(t *testing.T) {
	router := newTestRouter(collector.NewFleetFromPollers())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batteries/unknown", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestGetBatterySnapshotNotYetPolled(t *testing.T) {
	p := collector.NewPoller("battery-1", 1, &noopTransport{}, time.Second, buffer.New(1, nil), nil)
	fleet := collector.NewFleetFromPollers(p)
	router := newTestRouter(fleet)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batteries/battery-1", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("a poller that has never completed a poll has no snapshot yet: got %d, want 404", w.Code)
	}
}

func TestControlBatteryUnknownCommand(t *testing.T) {
	p := collector.NewPoller("battery-1", 1, &noopTransport{}, time.Second, buffer.New(1, nil), nil)
	fleet := collector.NewFleetFromPollers(p)
	router := newTestRouter(fleet)

	body, _ := json.Marshal(map[string]string{"command": "reboot"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batteries/battery-1/control", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400 for an unknown command", w.Code)
	}
}

func TestControlBatteryUnknownBattery(t *testing.T) {
	router := newTestRouter(collector.NewFleetFromPollers())

	body, _ := json.Marshal(map[string]string{"command": "lock"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batteries/battery-1/control", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404 for an unknown battery", w.Code)
	}
}

func TestControlBatteryLockSucceeds(t *testing.T) {
	p := collector.NewPoller("battery-1", 1, &noopTransport{}, time.Second, buffer.New(1, nil), nil)
	fleet := collector.NewFleetFromPollers(p)
	router := newTestRouter(fleet)

	body, _ := json.Marshal(map[string]string{"command": "lock"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batteries/battery-1/control", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
}

func TestControlBatteryWriteFailureReturnsBadGateway(t *testing.T) {
	p := collector.NewPoller("battery-1", 1, &noopTransport{failWrites: true}, time.Second, buffer.New(1, nil), nil)
	fleet := collector.NewFleetFromPollers(p)
	router := newTestRouter(fleet)

	body, _ := json.Marshal(map[string]string{"command": "lock"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batteries/battery-1/control", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("got status %d, want 502", w.Code)
	}
}

func TestControlBatteryRejectsOutOfRangePowerSettings(t *testing.T) {
	p := collector.NewPoller("battery-1", 1, &noopTransport{}, time.Second, buffer.New(1, nil), nil)
	fleet := collector.NewFleetFromPollers(p)
	router := newTestRouter(fleet)

	charge := 150
	discharge := 50
	body, _ := json.Marshal(map[string]any{
		"command":           "set_power_settings",
		"charge_percent":    charge,
		"discharge_percent": discharge,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batteries/battery-1/control", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400 for an out-of-range charge percent", w.Code)
	}
}
