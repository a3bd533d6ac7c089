package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestStreams(t *testing.T) {
	u, out, errOut := newTestUI()
	u.Info("hello %s", "world")
	u.Success("done %d", 42)
	u.Warning("careful %s", "now")
	u.Error("failed %s", "badly")

	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "done 42")
	assert.Contains(t, errOut.String(), "careful now")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog(t *testing.T) {
	u, out, _ := newTestUI()
	u.VerboseLog("hidden")
	assert.Empty(t, out.String())

	u.Verbose = true
	u.VerboseLog("detail %d", 1)
	assert.Contains(t, out.String(), "detail 1")
}

func TestTableRendersRows(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"ID", "Category"})
	require.NoError(t, table.Append([]string{"c1", "Question"}))
	require.NoError(t, table.Append([]string{"c2", "Method"}))
	require.NoError(t, table.Render())

	assert.Contains(t, out.String(), "c1")
	assert.Contains(t, out.String(), "Method")
}

func TestColorsKeepText(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	assert.Equal(t, "accepted", StatusColor("accepted"))
	assert.Equal(t, "other", StatusColor("other"))
	assert.Equal(t, "76.0", TotalColor(76, "76.0"))
}
