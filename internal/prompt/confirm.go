// Package prompt asks the user yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned instead of asking when stdin is not a
// terminal. Scripts pass --yes.
var ErrNotInteractive = errors.New("non-interactive stdin: use --yes to confirm")

// Confirmer asks on Out and reads the answer from In.
type Confirmer struct {
	In            io.Reader
	Out           io.Writer
	IsInteractive func() bool
}

func DefaultConfirmer() Confirmer {
	return Confirmer{
		In:            os.Stdin,
		Out:           os.Stderr,
		IsInteractive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// Confirm reports whether the user answered y or yes. force answers for them.
func (c Confirmer) Confirm(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if c.IsInteractive == nil || !c.IsInteractive() {
		return false, ErrNotInteractive
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "%s [y/N]: ", question)
	}
	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c Confirmer) ConfirmClearHistory(count int, force bool) (bool, error) {
	noun := "corrections"
	if count == 1 {
		noun = "correction"
	}
	return c.Confirm(fmt.Sprintf("Delete %d saved %s?", count, noun), force)
}

func (c Confirmer) ConfirmOverwrite(path string, force bool) (bool, error) {
	return c.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path), force)
}
