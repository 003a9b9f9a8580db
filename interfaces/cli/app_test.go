package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/abn-mcp/domain/config"
	"github.com/felixgeelhaar/abn-mcp/domain/tool"
	"github.com/felixgeelhaar/abn-mcp/infrastructure/mcp"
	abrpack "github.com/felixgeelhaar/abn-mcp/pack/abr"
)

// envOf returns a lookup backed by a fixed map.
func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func newTestApp(env map[string]string) (*App, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	app := New().WithOutput(stdout, stderr).WithEnv(envOf(env))
	return app, stdout, stderr
}

// registryServer fakes the registry JSON endpoints.
func registryServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("guid") != "test-guid" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/AbnDetails.aspx":
			if r.URL.Query().Get("abn") == "00000000000" {
				fmt.Fprint(w, `callback({"Message":"Search text is not a valid ABN or ACN"})`)
				return
			}
			fmt.Fprintf(w, `callback({"Abn":%q})`, r.URL.Query().Get("abn"))
		case "/AcnDetails.aspx":
			fmt.Fprintf(w, `callback({"Acn":%q})`, r.URL.Query().Get("acn"))
		case "/MatchingNames.aspx":
			fmt.Fprintf(w, `callback({"Names":[],"Max":%q})`, r.URL.Query().Get("maxResults"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(nil)
	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(stdout.String(), "abn-mcp-server version 0.0.3") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestServe_MissingGUID(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{}, {"serve"}} {
		app, _, stderr := newTestApp(map[string]string{})

		err := app.ExecuteWithArgs(context.Background(), args)
		if !errors.Is(err, config.ErrMissingCredential) {
			t.Fatalf("args %v: error = %v, want ErrMissingCredential", args, err)
		}

		if code := app.Report(err); code != 1 {
			t.Errorf("Report() = %d, want 1", code)
		}
		if strings.TrimSpace(stderr.String()) != MissingGUIDMessage {
			t.Errorf("stderr = %q, want %q", stderr.String(), MissingGUIDMessage)
		}
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	app, _, stderr := newTestApp(nil)

	if code := app.Report(nil); code != 0 {
		t.Errorf("Report(nil) = %d, want 0", code)
	}
	if stderr.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", stderr.String())
	}

	if code := app.Report(errors.New("boom")); code != 1 {
		t.Errorf("Report() = %d, want 1", code)
	}
	if stderr.String() != "Error: boom\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestLookupCommand(t *testing.T) {
	t.Parallel()

	srv := registryServer(t)
	env := map[string]string{
		"ABN_API_GUID": "test-guid",
		"ABN_API_BASE": srv.URL,
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"lookup", "abn", "51824753556"}, `{"Abn":"51824753556"}`},
		{[]string{"lookup", "abn", "00000000000"}, abrpack.MsgABNInvalid},
		{[]string{"lookup", "acn", "004085616"}, `{"Acn":"004085616"}`},
		{[]string{"lookup", "name", "acme pty ltd"}, `{"Names":[],"Max":"10"}`},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			t.Parallel()

			app, stdout, _ := newTestApp(env)
			if err := app.ExecuteWithArgs(context.Background(), tt.args); err != nil {
				t.Fatalf("lookup error = %v", err)
			}
			if got := strings.TrimSpace(stdout.String()); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupCommand_Unavailable(t *testing.T) {
	t.Parallel()

	srv := registryServer(t)
	app, stdout, stderr := newTestApp(map[string]string{
		"ABN_API_GUID":   "wrong-guid",
		"ABN_API_BASE":   srv.URL,
		"ABN_LOG_FORMAT": "json",
	})

	if err := app.ExecuteWithArgs(context.Background(), []string{"lookup", "acn", "004085616"}); err != nil {
		t.Fatalf("lookup error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != abrpack.MsgACNUnavailable {
		t.Errorf("output = %q, want %q", got, abrpack.MsgACNUnavailable)
	}
	if !strings.Contains(stderr.String(), "error making registry request") {
		t.Errorf("stderr missing failure log: %q", stderr.String())
	}
	if strings.Contains(stderr.String(), "wrong-guid") {
		t.Errorf("stderr leaks GUID: %q", stderr.String())
	}
}

func TestLookupCommand_InvalidLength(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(map[string]string{"ABN_API_GUID": "test-guid"})

	err := app.ExecuteWithArgs(context.Background(), []string{"lookup", "abn", "123"})
	if !errors.Is(err, tool.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestLookupCommand_MissingGUID(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(map[string]string{})

	err := app.ExecuteWithArgs(context.Background(), []string{"lookup", "abn", "51824753556"})
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Errorf("error = %v, want ErrMissingCredential", err)
	}
}

func TestLookupCommand_EnvFile(t *testing.T) {
	t.Parallel()

	srv := registryServer(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "ABN_API_GUID=test-guid\nABN_API_BASE=" + srv.URL + "\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	app, stdout, _ := newTestApp(map[string]string{})
	err := app.ExecuteWithArgs(context.Background(), []string{"--env-file", envFile, "lookup", "acn", "004085616"})
	if err != nil {
		t.Fatalf("lookup error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != `{"Acn":"004085616"}` {
		t.Errorf("output = %q", got)
	}
}

func TestToolsCommand(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(map[string]string{})
	if err := app.ExecuteWithArgs(context.Background(), []string{"tools", "--json"}); err != nil {
		t.Fatalf("tools error = %v", err)
	}

	var defs []mcp.ToolDef
	if err := json.Unmarshal(stdout.Bytes(), &defs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}

	want := []string{abrpack.BusinessNumberSearch, abrpack.CompanyNumberSearch, abrpack.NameSearch}
	if len(defs) != len(want) {
		t.Fatalf("got %d tools, want %d", len(defs), len(want))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Errorf("tool[%d] = %s, want %s", i, defs[i].Name, name)
		}
	}
	var schema struct {
		Required   []string `json:"required"`
		Properties map[string]struct {
			MinLength int `json:"minLength"`
			MaxLength int `json:"maxLength"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(defs[0].InputSchema, &schema); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	if abn := schema.Properties["abn"]; abn.MinLength != 11 || abn.MaxLength != 11 {
		t.Errorf("abn length = %d..%d, want 11..11", abn.MinLength, abn.MaxLength)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "abn" {
		t.Errorf("required = %v, want [abn]", schema.Required)
	}
}

func TestToolsCommand_Text(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(nil)
	if err := app.ExecuteWithArgs(context.Background(), []string{"tools"}); err != nil {
		t.Fatalf("tools error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Tools (3):") {
		t.Errorf("output = %q", stdout.String())
	}
}
