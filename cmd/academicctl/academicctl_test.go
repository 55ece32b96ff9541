package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/academic-backend/internal/config"
	"github.com/stemsi/academic-backend/internal/handler"
	"github.com/stemsi/academic-backend/internal/metrics"
	"github.com/stemsi/academic-backend/internal/repository"
	"github.com/stemsi/academic-backend/internal/router"
	"github.com/stemsi/academic-backend/internal/service"
	"github.com/stemsi/academic-backend/internal/testutil"
	"github.com/stemsi/academic-backend/internal/validator"
	"github.com/stemsi/academic-backend/pkg/failure"
	"github.com/stemsi/academic-backend/pkg/model"
)

func startServer(t *testing.T) string {
	t.Helper()
	validator.Setup()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	managers := service.NewManagers(repository.NewSQLiteSet(testutil.NewSQLite(t)), zerolog.Nop())
	cfg := &config.Config{GinMode: gin.TestMode}
	srv := httptest.NewServer(router.SetupRouter(ctx, handler.NewHandlers(managers), cfg, zerolog.Nop(), metrics.New()))
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1"
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestStudentCommands(t *testing.T) {
	server := startServer(t)

	out, err := run(t, server, "--json", "student", "create", "Ada Lovelace", "--email", "ada@example.edu")
	require.NoError(t, err)
	var created model.Student
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Ada Lovelace", created.Name)
	assert.Equal(t, "ada@example.edu", created.EmailAddress)

	out, err = run(t, server, "student", "list")
	require.NoError(t, err)
	assert.Contains(t, out, created.UUID)
	assert.Contains(t, out, "ada@example.edu")
	assert.Contains(t, out, "EMAIL")

	out, err = run(t, server, "student", "update", created.UUID, "Ada King")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada King")
	assert.Contains(t, out, "ada@example.edu")

	out, err = run(t, server, "student", "delete", created.UUID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted student "+created.UUID)

	_, err = run(t, server, "student", "get", created.UUID)
	assert.True(t, failure.IsObjectNotFound(err))
}

func TestEmptyListAndEmailFlagScope(t *testing.T) {
	server := startServer(t)

	out, err := run(t, server, "course", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No items found")

	_, err = run(t, server, "course", "create", "Algorithms", "--email", "x@example.edu")
	assert.Error(t, err)
}

func TestTestRunCommands(t *testing.T) {
	server := startServer(t)

	out, err := run(t, server, "--json", "testrun", "create", "cli")
	require.NoError(t, err)
	var tr model.TestRun
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	require.NotEmpty(t, tr.UUID)

	_, err = run(t, server, "term", "create", "Tagged", "--test-run", tr.UUID)
	require.NoError(t, err)

	out, err = run(t, server, "testrun", "purge", tr.UUID)
	require.NoError(t, err)
	assert.Contains(t, out, "Purged test run")

	out, err = run(t, server, "--json", "term", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestServerFromEnvironment(t *testing.T) {
	server := startServer(t)
	t.Setenv("ACADEMIC_SERVER", server)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json", "instructor", "list"})
	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `[]`, out.String())
}
