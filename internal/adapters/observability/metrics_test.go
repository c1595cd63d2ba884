package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nutricheck/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so they are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("campusdish", "locationfullmenu", 503, 40*time.Millisecond)
	observability.ObserveNormalize("known_shape", 3)
	observability.ObserveAdmin("wrong")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"nutricheck_http_requests_total",
		`nutricheck_external_requests_total{endpoint="locationfullmenu",service="campusdish",status="503"}`,
		`nutricheck_normalize_results_total{tier="known_shape"}`,
		`nutricheck_admin_passcode_attempts_total{outcome="wrong"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if l := observability.NewLogger("prod", "debug"); l.GetLevel().String() != "debug" {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}
	if l := observability.NewLogger("dev", "nonsense"); l.GetLevel().String() != "info" {
		t.Fatalf("expected info fallback, got %s", l.GetLevel())
	}
}
