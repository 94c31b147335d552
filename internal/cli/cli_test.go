package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const claimsJSON = `[
  {"id": 1, "number": "CL-001", "holder": "Ada Lovelace", "policyNumber": "TL-1", "status": "Approved", "amount": "1500", "processingFee": "75", "incidentDate": "2025-01-01", "createdAt": "2025-01-02T10:00:00Z"},
  {"id": 2, "number": "CL-002", "holder": "Alan Turing", "policyNumber": "TL-2", "status": "Rejected", "amount": "300", "processingFee": "20", "incidentDate": "2025-02-01", "createdAt": "2025-02-02T10:00:00Z"},
  {"id": 3, "number": "CL-003", "holder": "Grace Hopper", "policyNumber": "TL-3", "status": "Approved", "amount": "9000", "processingFee": "100", "incidentDate": "2025-03-01", "createdAt": "2025-03-02T10:00:00Z"}
]`

func claimsServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/claims" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claimsJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "claimdeck dev\n", out)
}

func TestConfigShow_FlagOverrides(t *testing.T) {
	out, stderr, err := execute(t, "config", "show", "--config", missingConfig(t), "--api-url", "http://claims.test:9000", "--poll", "5")
	require.NoError(t, err)
	assert.Contains(t, stderr, "showing defaults")
	assert.Contains(t, out, "http://claims.test:9000")
	assert.Contains(t, out, "poll_seconds: 5")
	assert.Contains(t, out, "cache_seconds: 30")
}

func TestConfigShow_EnvOverrides(t *testing.T) {
	t.Setenv("CLAIMDECK_API_URL", "http://from-env:8001")
	t.Setenv("CLAIMDECK_LOG_LEVEL", "debug")

	out, _, err := execute(t, "config", "show", "--config", missingConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "http://from-env:8001")
	assert.Contains(t, out, "log_level: debug")
}

func TestConfigShow_FileThenFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_url = \"http://file:1\"\npoll_seconds = 90\n"), 0o644))

	out, stderr, err := execute(t, "config", "show", "--config", path, "--poll", "10")
	require.NoError(t, err)
	assert.Contains(t, stderr, path)
	assert.Contains(t, out, "http://file:1")
	assert.Contains(t, out, "poll_seconds: 10")
}

func TestConfigShow_RejectsInvalid(t *testing.T) {
	_, _, err := execute(t, "config", "show", "--config", missingConfig(t), "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestConfigInit(t *testing.T) {
	path := missingConfig(t)
	out, _, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "api_url")
	assert.Contains(t, string(data), "http://localhost:8001")

	_, _, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestList_FiltersSortsAndPages(t *testing.T) {
	srv := claimsServer(t)
	out, _, err := execute(t, "list",
		"--config", missingConfig(t),
		"--api-url", srv.URL,
		"--status", "Approved",
		"--sort", "total-highest",
		"--format", "csv",
		"--columns", "number,totalAmount",
	)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"Claim ID,Total Amount",
		`CL-003,"$9,100.00"`,
		`CL-001,"$1,575.00"`,
	}, lines)
}

func TestList_SearchWhereAndLimit(t *testing.T) {
	srv := claimsServer(t)
	out, _, err := execute(t, "list",
		"--config", missingConfig(t),
		"--api-url", srv.URL,
		"--where", "fee >= 75",
		"--sort", "created-oldest",
		"--offset", "1",
		"--limit", "1",
		"--format", "ndjson",
	)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"number":"CL-003"`)

	out, _, err = execute(t, "list", "--config", missingConfig(t), "--api-url", srv.URL, "--search", "turing", "--format", "csv", "--columns", "holder")
	require.NoError(t, err)
	assert.Equal(t, "Holder\nAlan Turing\n", out)
}

func TestList_RejectsBadInput(t *testing.T) {
	cfg := missingConfig(t)
	_, _, err := execute(t, "list", "--config", cfg, "--sort", "random")
	assert.ErrorContains(t, err, "unknown sort option")

	_, _, err = execute(t, "list", "--config", cfg, "--columns", "colour")
	assert.ErrorContains(t, err, "unknown column")

	_, _, err = execute(t, "list", "--config", cfg, "--where", "price > 1")
	assert.ErrorContains(t, err, "unknown field")
}

func TestPage(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, page(items, 0, 0))
	assert.Equal(t, []int{1, 2}, page(items, 1, 2))
	assert.Equal(t, []int{3, 4}, page(items, 3, 10))
	assert.Empty(t, page(items, 5, 2))
	assert.Equal(t, []int{0, 1}, page(items, -3, 2))
}

func TestLogs(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "claimdeck.log")
	lines := `{"time":"2025-03-01T10:00:00Z","level":"INFO","msg":"claimdeck starting"}
{"time":"2025-03-01T10:01:00Z","level":"WARN","msg":"claims poll failed","consecutive_failures":1}
`
	require.NoError(t, os.WriteFile(logPath, []byte(lines), 0o644))

	out, _, err := execute(t, "logs", "--config", missingConfig(t), "--log-file", logPath, "--level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "claims poll failed consecutive_failures=1")
	assert.NotContains(t, out, "starting")

	_, stderr, err := execute(t, "logs", "--config", missingConfig(t), "--log-file", filepath.Join(dir, "none.log"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "no log entries")
}
