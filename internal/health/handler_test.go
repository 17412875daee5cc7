package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type stubUpstream struct {
	connected bool
}

func (s stubUpstream) IsConnected() bool { return s.connected }

func doReadiness(t *testing.T, h *Handler) (int, HealthResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	if err := h.Readiness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Readiness failed: %v", err)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h := NewHandler(nil, nil, "test")
	if err := h.Liveness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Liveness failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestReadinessAllHealthy(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewHandler(stubUpstream{connected: true}, client, "test")
	code, resp := doReadiness(t, h)

	if code != http.StatusOK {
		t.Errorf("status code = %d", code)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", resp.Status, StatusHealthy)
	}
	if resp.Components["upstream"].Status != StatusHealthy {
		t.Errorf("upstream = %+v", resp.Components["upstream"])
	}
	if resp.Components["cache"].Status != StatusHealthy {
		t.Errorf("cache = %+v", resp.Components["cache"])
	}
}

func TestReadinessIdleUpstreamDegrades(t *testing.T) {
	h := NewHandler(stubUpstream{connected: false}, nil, "test")
	code, resp := doReadiness(t, h)

	if code != http.StatusOK {
		t.Errorf("degraded must still report 200, got %d", code)
	}
	if resp.Status != StatusDegraded {
		t.Errorf("status = %q, want %q", resp.Status, StatusDegraded)
	}
}

func TestReadinessDeadCacheDegrades(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	h := NewHandler(stubUpstream{connected: true}, client, "test")
	_, resp := doReadiness(t, h)

	if resp.Status != StatusDegraded {
		t.Errorf("status = %q, want %q", resp.Status, StatusDegraded)
	}
	if resp.Components["cache"].Status != StatusDegraded {
		t.Errorf("cache = %+v", resp.Components["cache"])
	}
}

func TestReadinessWithoutOptionalComponents(t *testing.T) {
	// Single-shot provider and no cache configured: nothing to degrade.
	h := NewHandler(nil, nil, "test")
	code, resp := doReadiness(t, h)

	if code != http.StatusOK {
		t.Errorf("status code = %d", code)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("status = %q, want %q", resp.Status, StatusHealthy)
	}
}
