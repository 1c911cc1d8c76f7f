package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode: ColorNever,
		Quiet:     quiet,
		Out:       &stdout,
		Err:       &stderr,
	})
	return p, &stdout, &stderr
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, ResolveColors(ColorAlways, false))
	assert.False(t, ResolveColors(ColorAuto, true))

	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(ColorAuto, true))

	t.Setenv("TERM", "xterm-256color")
	assert.True(t, ResolveColors(ColorAuto, true))
	assert.False(t, ResolveColors(ColorAuto, false))
	assert.False(t, ResolveColors(ColorNever, true))
}

func TestPrinter_PlainOutput(t *testing.T) {
	p, stdout, stderr := newTestPrinter(false)

	p.Success("saved %s", "settings")
	p.Info("3 users")
	p.Warning("stale")
	p.Error("failed")

	assert.Equal(t, "[OK] saved settings\n3 users\n", stdout.String())
	assert.Equal(t, "[WARN] stale\n[ERROR] failed\n", stderr.String())
	assert.Equal(t, "[pending]", p.StatusBadge("pending"))
	assert.Equal(t, "x", p.Bold("x"))
}

func TestPrinter_QuietKeepsErrorsAndJSON(t *testing.T) {
	p, stdout, stderr := newTestPrinter(true)

	p.Success("hidden")
	p.Header("hidden")
	p.Error("shown")
	require.NoError(t, p.JSON(map[string]int{"n": 1}))

	assert.Equal(t, "{\n  \"n\": 1\n}\n", stdout.String())
	assert.Equal(t, "[ERROR] shown\n", stderr.String())
	assert.True(t, p.IsQuiet())
}

func TestPrinter_Table(t *testing.T) {
	p, stdout, _ := newTestPrinter(false)

	table := p.NewTable([]string{"ID", "NAME"})
	table.AddRow([]string{"1", "news"})
	table.AddRow([]string{"2", "sports"})
	require.NoError(t, table.Render())

	assert.Equal(t, 2, table.Len())
	assert.Contains(t, stdout.String(), "news")
	assert.Contains(t, stdout.String(), "sports")
}

func TestPrinter_QuietTableRendersNothing(t *testing.T) {
	p, stdout, _ := newTestPrinter(true)

	table := p.NewTable([]string{"ID"})
	table.AddRow([]string{"1"})
	require.NoError(t, table.Render())

	assert.Empty(t, stdout.String())
}
