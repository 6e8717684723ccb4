// Package console is the local interactive front end: the same command
// grammar pkg/automation's CLIServer exposes over telnet, but read
// straight off the process's own stdin/stdout. Adapted from
// pkg/readline.Reader, which already carried line editing and a history
// file but left raw-mode key handling as a TODO; this package fills that
// in with golang.org/x/term for single-keystroke stepping shortcuts when
// attached to a real TTY, falling back to pkg/readline's line mode
// otherwise (a piped stdin, or any non-terminal, behaves exactly like the
// CLI telnet connection per spec.md §6).
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/alfishe/unrealcore/pkg/automation"
	"github.com/alfishe/unrealcore/pkg/readline"
)

// keyShortcuts maps a single raw keystroke to the full command it stands
// in for, the single-keystroke stepping convenience spec.md §5 motivates
// for a locally-attached console (a telnet client never gets these; it
// always types full command lines).
var keyShortcuts = map[byte]string{
	's': "step",
	'n': "stepover",
	'c': "resume",
	'p': "pause",
	'r': "registers",
	'q': "exit",
}

// Console drives one Dispatcher/Session pair from a terminal.
type Console struct {
	dispatcher *automation.Dispatcher
	session    *automation.Session
	in         io.Reader
	out        io.Writer
	historyFile string
}

// New builds a Console bound to registry, reading in and writing out.
func New(registry *automation.Registry, in io.Reader, out io.Writer, historyFile string) *Console {
	return &Console{
		dispatcher:  automation.NewDispatcher(registry),
		session:     automation.NewSession(registry),
		in:          in,
		out:         out,
		historyFile: historyFile,
	}
}

// Run drives the console until EOF, Ctrl-D, or an `exit`/`quit` command.
// When in is a real TTY (stdin, and not redirected from a file or pipe),
// single keystrokes from keyShortcuts are accepted directly in addition to
// full command lines; otherwise every line is read and dispatched as a
// complete command, same as a telnet client.
func (c *Console) Run() error {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return c.runRaw(f)
	}
	return c.runLine()
}

func (c *Console) runLine() error {
	reader := readline.NewReader(&readline.Config{
		Prompt:      "> ",
		HistoryFile: c.historyFile,
		Input:       c.in,
		Output:      c.out,
	})
	for {
		line, err := reader.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		fmt.Fprintln(c.out, c.dispatcher.Dispatch(c.session, line))
		if line == "exit" || line == "quit" {
			return nil
		}
	}
}

// runRaw puts the terminal in raw mode so single keystrokes in
// keyShortcuts fire immediately, while a line starting with anything else
// is collected character-by-character (with basic backspace handling)
// until Enter and dispatched as a full command — the same grammar
// runLine uses, just assembled by hand since raw mode gets no kernel line
// discipline to lean on.
func (c *Console) runRaw(f *os.File) error {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	fmt.Fprint(c.out, "> ")
	reader := bufio.NewReader(c.in)
	var line []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		switch {
		case b == '\r' || b == '\n':
			fmt.Fprint(c.out, "\r\n")
			cmd := string(line)
			line = line[:0]
			if cmd == "" {
				fmt.Fprint(c.out, "> ")
				continue
			}
			fmt.Fprint(c.out, c.dispatcher.Dispatch(c.session, cmd), "\r\n> ")
			if cmd == "exit" || cmd == "quit" {
				return nil
			}
		case b == 3 || b == 4: // Ctrl-C, Ctrl-D
			return nil
		case b == 127 || b == 8: // Backspace/Delete
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Fprint(c.out, "\b \b")
			}
		case len(line) == 0:
			if cmd, ok := keyShortcuts[b]; ok {
				fmt.Fprintf(c.out, "%c\r\n", b)
				fmt.Fprint(c.out, c.dispatcher.Dispatch(c.session, cmd), "\r\n> ")
				continue
			}
			line = append(line, b)
			fmt.Fprintf(c.out, "%c", b)
		default:
			line = append(line, b)
			fmt.Fprintf(c.out, "%c", b)
		}
	}
}
