package registry

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// ReadPipedStdin reads the whole of in. It refuses to block on an
// interactive terminal and returns ErrNoPipedInput instead. Before reading,
// the marker "stdin" is written to diag.
func ReadPipedStdin(in io.Reader, diag io.Writer) (string, error) {
	if isTerminal(in) {
		return "", ErrNoPipedInput
	}

	fmt.Fprintln(diag, "stdin")

	buf, err := io.ReadAll(in)
	if err != nil {
		return "", errors.Wrap(err, "failed stdin")
	}

	return string(buf), nil
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}

	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
