package abr

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
	"github.com/felixgeelhaar/abn-mcp/domain/registry"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/resilience"
)

const testGUID = "test-guid-0000"

func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return bolt.New(bolt.NewJSONHandler(buf)).SetLevel(bolt.TRACE), buf
}

// recorder captures the last request received by a test server.
type recorder struct {
	mu       sync.Mutex
	calls    int
	path     string
	rawQuery string
}

func (r *recorder) snapshot() (calls int, path, rawQuery string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.path, r.rawQuery
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.calls++
		rec.path = r.URL.Path
		rec.rawQuery = r.URL.RawQuery
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestLookupABN_Found(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusOK, `callback({"Abn":"51824753556","EntityName":"ACME"})`)
	logger, _ := testLogger()
	gw := New(srv.URL, testGUID, WithLogger(logger))

	out := gw.LookupABN(context.Background(), "51824753556")

	if out.Status != registry.StatusFound {
		t.Fatalf("Status = %s, want found", out.Status)
	}
	if out.Payload != `{"Abn":"51824753556","EntityName":"ACME"}` {
		t.Errorf("Payload = %q", out.Payload)
	}
	calls, path, rawQuery := rec.snapshot()
	if path != "/AbnDetails.aspx" {
		t.Errorf("path = %s, want /AbnDetails.aspx", path)
	}
	if rawQuery != "abn=51824753556&guid="+testGUID {
		t.Errorf("query = %s", rawQuery)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestLookupABN_Invalid(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, `callback({"Message":"Search text is not a valid ABN or ACN"})`)
	logger, _ := testLogger()
	gw := New(srv.URL, testGUID, WithLogger(logger))

	out := gw.LookupABN(context.Background(), "00000000000")
	if out.Status != registry.StatusInvalid {
		t.Errorf("Status = %s, want invalid", out.Status)
	}
}

func TestLookupACN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status registry.Status
	}{
		{"found", `callback({"Acn":"004085616"})`, registry.StatusFound},
		{"invalid", `callback({"Message":"not a valid ACN"})`, registry.StatusInvalid},
		{"case sensitive marker", `callback({"Message":"Not A Valid ACN"})`, registry.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, rec := newServer(t, http.StatusOK, tt.body)
			logger, _ := testLogger()
			gw := New(srv.URL, testGUID, WithLogger(logger))

			out := gw.LookupACN(context.Background(), "004085616")
			if out.Status != tt.status {
				t.Errorf("Status = %s, want %s", out.Status, tt.status)
			}
			_, path, rawQuery := rec.snapshot()
			if path != "/AcnDetails.aspx" {
				t.Errorf("path = %s, want /AcnDetails.aspx", path)
			}
			if rawQuery != "acn=004085616&guid="+testGUID {
				t.Errorf("query = %s", rawQuery)
			}
		})
	}
}

func TestSearchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantQuery string
	}{
		{"plain", "acme", "name=acme&maxResults=10&guid=" + testGUID},
		{"spaces", "acme pty ltd", "name=acme%20pty%20ltd&maxResults=10&guid=" + testGUID},
		{"reserved", "a&b=c+d", "name=a%26b%3Dc%2Bd&maxResults=10&guid=" + testGUID},
		{"empty", "", "name=&maxResults=10&guid=" + testGUID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, rec := newServer(t, http.StatusOK, `callback({"Names":[]})`)
			logger, _ := testLogger()
			gw := New(srv.URL, testGUID, WithLogger(logger))

			out := gw.SearchName(context.Background(), tt.input)
			if out.Status != registry.StatusFound {
				t.Errorf("Status = %s, want found", out.Status)
			}
			calls, path, rawQuery := rec.snapshot()
			if calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
			if path != "/MatchingNames.aspx" {
				t.Errorf("path = %s, want /MatchingNames.aspx", path)
			}
			if rawQuery != tt.wantQuery {
				t.Errorf("query = %s, want %s", rawQuery, tt.wantQuery)
			}
		})
	}
}

func TestSearchName_NeverInvalid(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, `callback({"Message":"not a valid name"})`)
	logger, _ := testLogger()
	gw := New(srv.URL, testGUID, WithLogger(logger))

	out := gw.SearchName(context.Background(), "x")
	if out.Status != registry.StatusFound {
		t.Errorf("Status = %s, want found", out.Status)
	}
	if out.Payload != `{"Message":"not a valid name"}` {
		t.Errorf("Payload = %q", out.Payload)
	}
}

func TestLookup_HTTPStatusFailure(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusInternalServerError, "boom")
	logger, buf := testLogger()
	gw := New(srv.URL, testGUID, WithLogger(logger))

	out := gw.LookupABN(context.Background(), "51824753556")

	if out.Status != registry.StatusUnavailable {
		t.Fatalf("Status = %s, want unavailable", out.Status)
	}
	if !errors.Is(out.Err, registry.ErrHTTPStatus) {
		t.Errorf("Err = %v, want ErrHTTPStatus", out.Err)
	}
	var statusErr *StatusError
	if !errors.As(out.Err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Err = %v, want StatusError 500", out.Err)
	}
	if calls, _, _ := rec.snapshot(); calls != 1 {
		t.Errorf("calls = %d, want exactly 1 (no retry)", calls)
	}

	logs := buf.String()
	if strings.Count(logs, "error making registry request") != 1 {
		t.Errorf("want exactly one error log line, got: %s", logs)
	}
	if !strings.Contains(logs, "status_code") {
		t.Errorf("log missing status_code: %s", logs)
	}
	if !strings.Contains(logs, `"breaker":"disabled"`) {
		t.Errorf("log missing breaker state: %s", logs)
	}
}

func TestLookup_EmptyResponse(t *testing.T) {
	t.Parallel()

	lookups := map[string]func(*Gateway) registry.Outcome{
		"abn":  func(g *Gateway) registry.Outcome { return g.LookupABN(context.Background(), "51824753556") },
		"acn":  func(g *Gateway) registry.Outcome { return g.LookupACN(context.Background(), "004085616") },
		"name": func(g *Gateway) registry.Outcome { return g.SearchName(context.Background(), "acme") },
	}
	bodies := map[string]string{
		"empty body":     "",
		"empty callback": "callback()",
		"blank callback": "callback(  )",
	}

	for kind, lookup := range lookups {
		for name, body := range bodies {
			t.Run(kind+"/"+name, func(t *testing.T) {
				t.Parallel()

				srv, _ := newServer(t, http.StatusOK, body)
				logger, buf := testLogger()
				gw := New(srv.URL, testGUID, WithLogger(logger))

				out := lookup(gw)
				if out.Status != registry.StatusUnavailable {
					t.Fatalf("Status = %s, want unavailable", out.Status)
				}
				if !errors.Is(out.Err, registry.ErrEmptyResponse) {
					t.Errorf("Err = %v, want ErrEmptyResponse", out.Err)
				}
				if n := strings.Count(buf.String(), "error making registry request"); n != 1 {
					t.Errorf("error log lines = %d, want 1: %s", n, buf.String())
				}
			})
		}
	}
}

func TestLookup_BodyTooLarge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status registry.Status
	}{
		{"at limit", `callback({"Abn":"1"})`, registry.StatusFound},
		{"over limit", `callback({"Abn":"12"})`, registry.StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newServer(t, http.StatusOK, tt.body)
			logger, buf := testLogger()
			gw := New(srv.URL, testGUID, WithLogger(logger), WithMaxBodySize(int64(len(`callback({"Abn":"1"})`))))

			out := gw.LookupABN(context.Background(), "51824753556")
			if out.Status != tt.status {
				t.Fatalf("Status = %s, want %s", out.Status, tt.status)
			}
			if tt.status != registry.StatusUnavailable {
				return
			}
			if !errors.Is(out.Err, registry.ErrResponseTooLarge) {
				t.Errorf("Err = %v, want ErrResponseTooLarge", out.Err)
			}
			if !strings.Contains(buf.String(), "registry response too large") {
				t.Errorf("log missing size failure: %s", buf.String())
			}
		})
	}
}

func TestLookup_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	logger, buf := testLogger()
	gw := New(base, testGUID, WithLogger(logger))

	out := gw.LookupACN(context.Background(), "004085616")

	if out.Status != registry.StatusUnavailable {
		t.Fatalf("Status = %s, want unavailable", out.Status)
	}
	if !errors.Is(out.Err, registry.ErrTransport) {
		t.Errorf("Err = %v, want ErrTransport", out.Err)
	}
	if strings.Contains(buf.String(), testGUID) {
		t.Errorf("log leaks GUID: %s", buf.String())
	}
	if strings.Contains(out.Err.Error(), testGUID) {
		t.Errorf("error leaks GUID: %v", out.Err)
	}
}

func TestLookup_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	logger, _ := testLogger()
	gw := New(srv.URL, testGUID,
		WithLogger(logger),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)

	out := gw.SearchName(context.Background(), "slow")
	if out.Status != registry.StatusUnavailable {
		t.Errorf("Status = %s, want unavailable", out.Status)
	}
}

func TestLookup_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, "callback({})")
	logger, _ := testLogger()
	gw := New(srv.URL, testGUID, WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := gw.LookupABN(ctx, "51824753556")
	if out.Status != registry.StatusUnavailable {
		t.Errorf("Status = %s, want unavailable", out.Status)
	}
}

func TestLookup_UnknownKind(t *testing.T) {
	t.Parallel()

	logger, _ := testLogger()
	gw := New("http://127.0.0.1:1", testGUID, WithLogger(logger))

	out := gw.Lookup(context.Background(), registry.Query{Kind: "tfn", Value: "1"})
	if out.Status != registry.StatusUnavailable {
		t.Errorf("Status = %s, want unavailable", out.Status)
	}
	if !errors.Is(out.Err, registry.ErrUnknownKind) {
		t.Errorf("Err = %v, want ErrUnknownKind", out.Err)
	}
}

func TestLookup_OpenBreakerSkipsNetwork(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusBadGateway, "")
	logger, _ := testLogger()
	guard := resilience.NewGuard(config.ResilienceConfig{
		BreakerThreshold: 2,
		BreakerTimeout:   time.Minute,
	})
	gw := New(srv.URL, testGUID, WithLogger(logger), WithGuard(guard))

	for i := 0; i < 4; i++ {
		out := gw.LookupABN(context.Background(), "51824753556")
		if out.Status != registry.StatusUnavailable {
			t.Fatalf("call %d: Status = %s, want unavailable", i, out.Status)
		}
	}

	if calls, _, _ := rec.snapshot(); calls != 2 {
		t.Errorf("network calls = %d, want 2 before the breaker opened", calls)
	}
}

func TestURL(t *testing.T) {
	t.Parallel()

	gw := New("https://abr.example/json/", "g")

	tests := []struct {
		query registry.Query
		want  string
	}{
		{
			registry.Query{Kind: registry.KindABN, Value: "51824753556"},
			"https://abr.example/json/AbnDetails.aspx?abn=51824753556&guid=g",
		},
		{
			registry.Query{Kind: registry.KindACN, Value: "004085616"},
			"https://abr.example/json/AcnDetails.aspx?acn=004085616&guid=g",
		},
		{
			registry.NewNameQuery("Bob's Café"),
			"https://abr.example/json/MatchingNames.aspx?name=Bob's%20Caf%C3%A9&maxResults=10&guid=g",
		},
		{
			registry.NewNameQuery("a!b'(c)*"),
			"https://abr.example/json/MatchingNames.aspx?name=a!b'(c)*&maxResults=10&guid=g",
		},
		{
			registry.NewNameQuery("100% + 50%21"),
			"https://abr.example/json/MatchingNames.aspx?name=100%25%20%2B%2050%2521&maxResults=10&guid=g",
		},
	}

	for _, tt := range tests {
		if got := gw.URL(tt.query); got != tt.want {
			t.Errorf("URL(%v) = %s, want %s", tt.query, got, tt.want)
		}
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.GUID = "cfg-guid"
	cfg.HTTPTimeout = 3 * time.Second

	gw := NewFromConfig(cfg)
	if gw.guid != "cfg-guid" {
		t.Errorf("guid = %s, want cfg-guid", gw.guid)
	}
	if gw.baseURL != config.DefaultBaseURL {
		t.Errorf("baseURL = %s, want %s", gw.baseURL, config.DefaultBaseURL)
	}
	if gw.client.Timeout != 3*time.Second {
		t.Errorf("client timeout = %v, want 3s", gw.client.Timeout)
	}
	if gw.guard.BreakerState() != "disabled" {
		t.Errorf("breaker = %s, want disabled by default", gw.guard.BreakerState())
	}
}
