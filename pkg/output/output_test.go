package output

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/penfolio/penfolio-cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	config.Set("output.format", format)

	prevOut, prevNoColor := Out, color.NoColor
	buf := &bytes.Buffer{}
	Out = buf
	color.NoColor = true
	t.Cleanup(func() {
		Out = prevOut
		color.NoColor = prevNoColor
	})
	return buf
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"yaml", true},
		{"text", true},
		{"table", true},
		{"invalid", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.isValid, ValidateOutputFormat(tt.format), tt.format)
	}
}

func TestGetOutputFormatFallsBackToText(t *testing.T) {
	capture(t, "xml")
	assert.Equal(t, FormatText, GetOutputFormat())
	assert.False(t, Structured())
}

func TestPrintJSON(t *testing.T) {
	buf := capture(t, "json")
	require.NoError(t, Print("Blog", map[string]interface{}{"title": "Hello"}))
	assert.JSONEq(t, `{"title":"Hello"}`, buf.String())
	assert.True(t, Structured())
}

func TestPrintYAML(t *testing.T) {
	buf := capture(t, "yaml")
	require.NoError(t, Print("Blog", map[string]interface{}{"title": "Hello"}))
	assert.Equal(t, "title: Hello\n", buf.String())
}

func TestPrintListTable(t *testing.T) {
	buf := capture(t, "table")
	err := PrintList("Blogs", nil, []string{"ID", "Title"}, [][]string{{"1", "First"}, {"2", "Second"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "Second")
}

func TestPrintListJSONUsesItems(t *testing.T) {
	buf := capture(t, "json")
	items := []map[string]string{{"id": "1"}}
	require.NoError(t, PrintList("Blogs", items, []string{"ID"}, [][]string{{"1"}}))
	assert.JSONEq(t, `[{"id":"1"}]`, buf.String())
}

func TestPrintRecordTextSorted(t *testing.T) {
	buf := capture(t, "text")
	require.NoError(t, PrintRecord("Profile", map[string]interface{}{"username": "alice", "followers": 3}))
	assert.Equal(t, "Profile:\nfollowers: 3\nusername: alice\n", buf.String())
}

func TestMessages(t *testing.T) {
	buf := capture(t, "text")
	PrintSuccess("Logged in as %s", "alice")
	PrintError("boom")
	PrintWarning("careful")
	assert.Equal(t, "Logged in as alice\nError: boom\nWarning: careful\n", buf.String())
}
