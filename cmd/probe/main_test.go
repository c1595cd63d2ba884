package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"nutricheck/internal/shared"
)

func TestRootCmd_ErrorNotPrintedByCobra(t *testing.T) {
	cmd := newRootCmd(shared.Config{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(nil)

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no locations") {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("cobra wrote output, main would print twice: %q", out.String())
	}
}

func TestRun_CanceledContextStopsLaunching(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, shared.Config{}, []string{"1", "2", "3"}, "10/14/2026", 1)
	if err == nil || !strings.Contains(err.Error(), "semaphore acquire") {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestRun_ReportsFailedLocations(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasSuffix(r.URL.Path, "/bad") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"MealPeriods":[]}`))
	}))
	defer ts.Close()

	cfg := shared.Config{CampusDishBase: ts.URL, CampusDishUser: "u", CampusDishPass: "p", UpstreamRPS: 100}
	err := run(context.Background(), cfg, []string{"good", "bad", "good2"}, "10/14/2026", 2)
	if err == nil || err.Error() != "1 of 3 locations failed" {
		t.Fatalf("unexpected err: %v", err)
	}
	if n := hits.Load(); n != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", n)
	}
}
