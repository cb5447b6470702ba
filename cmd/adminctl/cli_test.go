package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/orgdesk/internal/cascade"
	"github.com/stwalsh4118/orgdesk/internal/config"
	"github.com/stwalsh4118/orgdesk/internal/handlers"
	"github.com/stwalsh4118/orgdesk/internal/logger"
	"github.com/stwalsh4118/orgdesk/internal/repository"
)

const testToken = "cli-token"

// setupServer starts the admin API over an empty in-memory store and points
// adminctl at it through the environment.
func setupServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test", Storage: config.StorageMemory},
		Auth:   config.AuthConfig{Tokens: []string{testToken}},
	}
	srv := httptest.NewServer(handlers.NewRouter(cfg, handlers.MemoryRepositories(repository.NewMemStore()), logger.Nop()))
	t.Cleanup(srv.Close)

	stateFile := filepath.Join(t.TempDir(), "state.yaml")
	t.Setenv("ADMIN_API_URL", srv.URL+"/api/v1")
	t.Setenv("ADMIN_API_TOKEN", testToken)
	t.Setenv("ADMIN_STATE_FILE", stateFile)
	return stateFile
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, args...)
	require.NoError(t, err, "adminctl %s\nstderr: %s", strings.Join(args, " "), errOut)
	return out
}

func TestGeoCommands(t *testing.T) {
	setupServer(t)

	out := mustRun(t, "geo", "add", "country", "Armenia")
	assert.Contains(t, out, `created country 1 "Armenia"`)

	_, _, err := run(t, "geo", "add", "region", "Kotayk")
	assert.ErrorContains(t, err, "--parent is required")

	out = mustRun(t, "geo", "add", "regions", "Kotayk", "--parent", "1")
	assert.Contains(t, out, `created region 2 "Kotayk"`)

	out = mustRun(t, "geo", "list", "regions", "--parent", "1")
	assert.Contains(t, out, "Kotayk")

	out = mustRun(t, "geo", "rename", "region", "2", "Kotayk Marz")
	assert.Contains(t, out, `"Kotayk" -> "Kotayk Marz"`)

	out, _, err = run(t, "geo", "rm", "country", "1")
	require.Error(t, err)
	assert.Contains(t, out, cascade.MessageInUse)

	out = mustRun(t, "geo", "list", "countries")
	assert.Contains(t, out, "Armenia")

	out = mustRun(t, "geo", "rm", "region", "2")
	assert.Contains(t, out, "deleted region 2")
}

func TestGeoBrowse(t *testing.T) {
	setupServer(t)
	mustRun(t, "geo", "add", "country", "Armenia")
	mustRun(t, "geo", "add", "country", "Georgia")
	mustRun(t, "geo", "add", "region", "Shirak", "--parent", "1")

	out := mustRun(t, "geo", "browse", "--country", "1")
	assert.Contains(t, out, "* 1 Armenia")
	assert.Contains(t, out, "  2 Georgia")
	assert.Contains(t, out, "3 Shirak")
	assert.Contains(t, out, "cities (disabled)")

	_, _, err := run(t, "geo", "browse", "--city", "3")
	assert.ErrorIs(t, err, cascade.ErrParentNotSelected)
}

func TestTicketsSearchKeepsURLState(t *testing.T) {
	setupServer(t)
	mustRun(t, "projects", "add", "ERP")
	mustRun(t, "tickets", "add", "abc printer", "--project", "1")
	mustRun(t, "tickets", "add", "network", "--project", "1", "--active=false")

	out := mustRun(t, "tickets", "search", "--url", "/tickets?status=true&page=3", "--name", "abc")
	lines := strings.Split(out, "\n")
	assert.Equal(t, "/tickets?name=abc&page=0&size=10&status=true", lines[0])
	assert.Contains(t, out, "abc printer")
	assert.NotContains(t, out, "network")

	out = mustRun(t, "tickets", "search", "--url", lines[0], "--page", "2")
	assert.Equal(t, "/tickets?name=abc&page=2&size=10&status=true", strings.Split(out, "\n")[0])

	out = mustRun(t, "tickets", "search", "--url", lines[0], "--project", "3", "--project", "7")
	assert.Contains(t, strings.Split(out, "\n")[0], "projectIds=3&projectIds=7")

	out = mustRun(t, "tickets", "search", "--url", lines[0], "--reset")
	assert.Equal(t, "/tickets?page=0&size=10", strings.Split(out, "\n")[0])
	assert.Contains(t, out, "network")

	_, _, err := run(t, "tickets", "search", "--status", "maybe")
	assert.Error(t, err)
}

func TestProjectsCommands(t *testing.T) {
	setupServer(t)
	mustRun(t, "projects", "add", "ERP", "--manager", "lusine")
	mustRun(t, "projects", "add", "CRM", "--manager", "aram")

	out := mustRun(t, "projects", "status", "1", "inactive")
	assert.Contains(t, out, "project 1 is inactive")

	out = mustRun(t, "projects", "search", "--status", "active")
	assert.Contains(t, out, "CRM")
	assert.NotContains(t, out, "ERP")
}

func TestCustomersAdd(t *testing.T) {
	setupServer(t)

	_, errOut, err := run(t, "customers", "add",
		"--first-name", "Ani", "--last-name", "Petrosyan", "--phone", "+37491000000", "--type", "legal")
	require.Error(t, err)
	assert.Contains(t, errOut, "taxId")

	out := mustRun(t, "customers", "add",
		"--first-name", "Ani", "--last-name", "Petrosyan", "--phone", "+37491000000",
		"--appointment-date", "2024-05-01", "--appointment-note", "intro call")
	assert.Contains(t, out, "registered customer")
}

func TestSeed(t *testing.T) {
	setupServer(t)
	file := filepath.Join(t.TempDir(), "seed.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"country,region,city,street\n"+
			"Armenia,Kotayk,Abovyan,Tumanyan\n"+
			"Armenia,Kotayk,Abovyan,Abovyan\n"+
			"Armenia,Shirak,,\n"+
			"\n"+
			"Georgia\n"), 0o600))

	out := mustRun(t, "seed", "--file", file)
	assert.Contains(t, out, "imported 4 rows: 7 created, 4 existing")

	out = mustRun(t, "seed", "--file", file)
	assert.Contains(t, out, "0 created, 11 existing")

	out = mustRun(t, "geo", "list", "streets")
	assert.Contains(t, out, "Tumanyan")
}

func TestTabState(t *testing.T) {
	stateFile := setupServer(t)

	out := mustRun(t, "tab", "get", "geo", "--default", "countries")
	assert.Equal(t, "countries\n", out)

	mustRun(t, "tab", "set", "geo", "cities")
	out = mustRun(t, "tab", "get", "geo")
	assert.Equal(t, "cities\n", out)

	data, err := os.ReadFile(stateFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "geo: cities")
}
