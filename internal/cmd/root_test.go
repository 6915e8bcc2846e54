package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/penfolio/penfolio-cli/internal/fakeapi"
	"github.com/penfolio/penfolio-cli/pkg/client"
	"github.com/penfolio/penfolio-cli/pkg/config"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv    *fakeapi.Server
	config string
	out    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	prev := output.Out
	output.Out = &out
	t.Cleanup(func() { output.Out = prev })

	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	t.Cleanup(client.Reset)

	return &harness{srv: srv, config: filepath.Join(t.TempDir(), "config.toml"), out: &out}
}

func (h *harness) run(args ...string) error {
	verbose, outputFmt, apiURL = false, "", ""
	full := append([]string{"--config", h.config, "--api", h.srv.URL}, args...)
	rootCmd.SetArgs(full)
	return rootCmd.ExecuteContext(context.Background())
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("alice", "pw")

	require.NoError(t, h.run("auth", "login", "-u", "alice", "-p", "pw"))
	assert.FileExists(t, config.GetSessionPath())

	h.out.Reset()
	require.NoError(t, h.run("-o", "table", "auth", "whoami"))
	assert.Contains(t, h.out.String(), "alice")

	require.NoError(t, h.run("auth", "logout", "--force"))
	err := h.run("auth", "whoami")
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotLoggedIn))
}

func TestSearchJSON(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser("bob", "pw")

	require.NoError(t, h.run("-o", "json", "search", "bo"))
	assert.Contains(t, h.out.String(), `"username": "bob"`)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t)

	err := h.run("-o", "xml", "version")
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
}

func TestConfigSetAndShow(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("config", "set", "feed.page_size", "3"))
	require.NoError(t, h.run("config", "show"))
	assert.Contains(t, h.out.String(), "feed.page_size: 3")

	err := h.run("config", "set", "nope", "1")
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
}

func TestCompletionScripts(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("completion", "bash"))
	assert.Contains(t, h.out.String(), "penfolio")

	h.out.Reset()
	require.NoError(t, h.run("completion", "fish"))
	assert.Contains(t, h.out.String(), "complete -c penfolio")

	assert.Error(t, h.run("completion", "tcsh"))
}
