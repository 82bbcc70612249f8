package registry

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/mattn/go-isatty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPipedStdin(t *testing.T) {
	var diag bytes.Buffer

	out, err := ReadPipedStdin(strings.NewReader(`{"schema":"\"int\""}`), &diag)
	require.NoError(t, err)
	assert.Equal(t, `{"schema":"\"int\""}`, out)
	assert.Equal(t, "stdin\n", diag.String())
}

func TestReadPipedStdinFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.WriteString("piped\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var diag bytes.Buffer
	out, err := ReadPipedStdin(r, &diag)
	require.NoError(t, err)
	assert.Equal(t, "piped\n", out)
	assert.Equal(t, "stdin\n", diag.String())
}

func TestReadPipedStdinRefusesTerminal(t *testing.T) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err != nil {
		t.Skipf("no controlling terminal: %v", err)
	}
	defer tty.Close()

	if !isatty.IsTerminal(tty.Fd()) {
		t.Skip("/dev/tty is not a terminal")
	}

	var diag bytes.Buffer
	out, err := ReadPipedStdin(tty, &diag)
	require.ErrorIs(t, err, ErrNoPipedInput)
	assert.Empty(t, out)
	assert.Empty(t, diag.String())
}
