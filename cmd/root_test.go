package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	code := Run(args, IOStreams{In: strings.NewReader(stdin), Out: &stdout, Err: &stderr})

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

type call struct {
	Method, Path, Body string
}

// fakeRegistry answers like a schema registry holding subject "s" and
// records every call.
func fakeRegistry(t *testing.T) (*httptest.Server, func() []call) {
	var (
		mu    sync.Mutex
		calls []call
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.Path, string(body)})
		mu.Unlock()

		switch {
		case r.URL.Path == "/subjects":
			_, _ = w.Write([]byte(`["a","b"]`))
		case strings.HasPrefix(r.URL.Path, "/subjects/s"):
			_, _ = w.Write([]byte(`{"subject":"s","version":3,"id":1,"schema":"\"int\""}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":40401,"message":"Subject not found."}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []call {
		mu.Lock()
		defer mu.Unlock()
		return append([]call(nil), calls...)
	}
}

func TestSchemasList(t *testing.T) {
	srv, calls := fakeRegistry(t)

	res := run("", "schemas", "--url", srv.URL, "--list")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "[\"a\",\"b\"]\n", res.stdout)
	assert.Empty(t, res.stderr)
	assert.Equal(t, []call{{http.MethodGet, "/subjects", ""}}, calls())
}

func TestSchemasListIsRepeatable(t *testing.T) {
	srv, _ := fakeRegistry(t)

	first := run("", "schemas", "--url", srv.URL, "-l")
	second := run("", "schemas", "--url", srv.URL, "-l")
	assert.Equal(t, first, second)
}

func TestSchemasGetVersion(t *testing.T) {
	srv, calls := fakeRegistry(t)

	res := run("", "schemas", "--url", srv.URL, "--subject", "s", "--version", "3")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "{\"subject\":\"s\",\"version\":3,\"id\":1,\"schema\":\"\\\"int\\\"\"}\n", res.stdout)

	res = run("", "schemas", "-u", srv.URL, "-s", "s", "-v", "3", "--schema")
	assert.Equal(t, 0, res.code)

	assert.Equal(t, []call{
		{http.MethodGet, "/subjects/s/versions/3", ""},
		{http.MethodGet, "/subjects/s/versions/3/schema", ""},
	}, calls())
}

func TestSchemasRegisterFromStdin(t *testing.T) {
	srv, calls := fakeRegistry(t)
	body := `{"schema":"\"int\""}` + "\n"

	res := run(body, "schemas", "--url", srv.URL, "--subject", "s", "--register")
	assert.Equal(t, 0, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "stdin\n{"), res.stdout)
	assert.Equal(t, []call{{http.MethodPost, "/subjects/s/versions", body}}, calls())
}

func TestSchemasRegisterPositional(t *testing.T) {
	srv, calls := fakeRegistry(t)
	body := `{"schema":"\"int\""}`

	res := run("ignored", "schemas", "--url", srv.URL, "--subject", "s", "--register", body)
	assert.Equal(t, 0, res.code)
	assert.False(t, strings.HasPrefix(res.stdout, "stdin"))
	assert.Equal(t, []call{{http.MethodPost, "/subjects/s/versions", body}}, calls())
}

func TestSchemasUnknownCombination(t *testing.T) {
	srv, calls := fakeRegistry(t)

	res := run("", "schemas", "--url", srv.URL, "--list", "--register")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Unknown argument combination!\n", res.stderr)
	assert.Empty(t, res.stdout)
	assert.Empty(t, calls())
}

func TestSchemasRegistryError(t *testing.T) {
	srv, _ := fakeRegistry(t)

	res := run("", "schemas", "--url", srv.URL, "--subject", "missing")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, "{\"error_code\":40401,\"message\":\"Subject not found.\"}\n", res.stderr)
}

func TestSchemasTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := run("", "schemas", "--url", url, "--list")
	assert.Equal(t, 1, res.code)
	assert.NotEmpty(t, res.stderr)
}

func TestSchemasURLFromEnvironment(t *testing.T) {
	srv, calls := fakeRegistry(t)
	t.Setenv("KAFKACLI_URL", srv.URL)

	res := run("", "schemas", "--list")
	assert.Equal(t, 0, res.code)
	assert.Len(t, calls(), 1)
}

func TestSchemasURLFromConfigFile(t *testing.T) {
	srv, calls := fakeRegistry(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: "+srv.URL+"\n"), 0o600))

	res := run("", "--config", path, "schemas", "--list")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Len(t, calls(), 1)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"schemas", "--url", "http://r", "--bogus"}},
		{"missing url", []string{"schemas", "--list"}},
		{"version is not a number", []string{"schemas", "--url", "http://r", "-s", "s", "-v", "x"}},
		{"too many arguments", []string{"schemas", "--url", "http://r", "-s", "s", "-r", "a", "b"}},
		{"unknown command", []string{"produce"}},
		{"missing command", []string{}},
		{"missing topics subcommand", []string{"topics"}},
		{"unknown topics subcommand", []string{"topics", "bogus"}},
		{"missing bootstrap servers", []string{"topics", "list"}},
		{"missing topic", []string{"topics", "describe", "--bootstrap-servers", "h:9092"}},
		{"invalid output format", []string{"-o", "xml", "topics", "list", "-b", "h:9092"}},
		{"missing config file", []string{"--config", "/does/not/exist.yaml", "schemas", "-l"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := run("", test.args...)
			assert.Equal(t, 2, res.code)
			assert.NotEmpty(t, res.stderr)
		})
	}
}

func TestHelp(t *testing.T) {
	for _, args := range [][]string{
		{"--help"},
		{"schemas", "--help"},
		{"topics", "describe", "--help"},
	} {
		res := run("", args...)
		assert.Equal(t, 0, res.code, args)
		assert.Contains(t, res.stdout, "Usage:", args)
	}
}

func TestConsumePlaceholder(t *testing.T) {
	res := run("", "consume", "--bootstrap-servers", "h:9092")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "consume\n", res.stdout)

	res = run("", "consume")
	assert.Equal(t, 2, res.code)
}
