package campusdish_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"nutricheck/internal/adapters/campusdish"
	"nutricheck/internal/domain"
)

func newClient(base, mode string) *campusdish.Client {
	return campusdish.New(campusdish.Options{
		Base:     base,
		Username: "svc@example.edu",
		Password: "s3cret",
		AuthMode: mode,
		Timeout:  2 * time.Second,
		RPS:      100, // high RPS for tests
	})
}

func TestClient_FetchMenu_BasicAuthAndHeaders(t *testing.T) {
	reqs := make(chan *http.Request, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqs <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MealPeriods":[{"Name":"Lunch","Id":12345678901234567}]}`))
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	doc, err := newClient(ts.URL, campusdish.AuthBasic).FetchMenu(ctx, "loc 7", "10/14/2026")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := <-reqs

	if got.URL.Path != "/api/Service.svc/menu/locationfullmenu/loc 7" {
		t.Fatalf("unexpected path: %q", got.URL.Path)
	}
	if d := got.URL.Query().Get("date"); d != "10/14/2026" {
		t.Fatalf("unexpected date: %q", d)
	}
	user, pass, ok := got.BasicAuth()
	if !ok || user != "svc@example.edu" || pass != "s3cret" {
		t.Fatalf("expected basic auth, got %q/%q ok=%v", user, pass, ok)
	}
	if got.Header.Get("Accept") != "application/json" ||
		got.Header.Get("User-Agent") != "NutriCheck/1.0" ||
		got.Header.Get("Cache-Control") != "no-cache" {
		t.Fatalf("unexpected headers: %v", got.Header)
	}

	root, ok := doc.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload: %#v", doc)
	}
	mp := root["MealPeriods"].([]any)[0].(map[string]any)
	if id, ok := mp["Id"].(json.Number); !ok || id.String() != "12345678901234567" {
		t.Fatalf("expected exact json.Number id, got %#v", mp["Id"])
	}
}

func TestClient_FetchMenu_URLEmbeddedCredentials(t *testing.T) {
	auth := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	// net/http turns URL userinfo into a basic auth header on the wire
	if _, err := newClient(ts.URL, campusdish.AuthURL).FetchMenu(context.Background(), "1", "d"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if authHeader := <-auth; !strings.HasPrefix(authHeader, "Basic ") {
		t.Fatalf("expected credentials from URL userinfo, got %q", authHeader)
	}
}

func TestClient_FetchMenu_MissingCredentials(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	cl := campusdish.New(campusdish.Options{Base: ts.URL, Username: "only-user"})
	_, err := cl.FetchMenu(context.Background(), "1", "d")
	if !errors.Is(err, domain.ErrCredentialsMissing) {
		t.Fatalf("expected ErrCredentialsMissing, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("no request must be sent without credentials")
	}
}

func TestClient_FetchMenu_ServiceUnavailable(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance window"))
	}))
	defer ts.Close()

	_, err := newClient(ts.URL, "").FetchMenu(context.Background(), "1", "d")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Status != 503 || ue.Body != "maintenance window" {
		t.Fatalf("expected diagnostics on error, got %#v", err)
	}
	if !strings.Contains(err.Error(), "503 Service Unavailable") {
		t.Fatalf("expected status text in message, got %q", err.Error())
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one call (no retries), got %d", n)
	}
}

func TestClient_FetchMenu_InvalidJSON(t *testing.T) {
	for name, body := range map[string]string{
		"html":     "<html>login</html>",
		"empty":    "",
		"trailing": `{"a":1} {"b":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()

			_, err := newClient(ts.URL, "").FetchMenu(context.Background(), "1", "d")
			if !errors.Is(err, domain.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestClient_FetchMenu_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close() // nothing listens any more

	_, err := newClient(base, "").FetchMenu(context.Background(), "1", "d")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
