package importdoc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type passwordPrompter interface {
	ReadPassword(prompt string) (string, error)
}

// terminalPrompter reads a password with echo suppressed, preferring the
// controlling terminal; stdin may be carrying the document.
type terminalPrompter struct{}

func (terminalPrompter) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	if tty, err := os.Open("/dev/tty"); err == nil {
		defer tty.Close()
		password, err := readPassword(tty)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	if isTerminal(os.Stdin) {
		password, err := readPassword(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	// No terminal at all. Read one line, echo cannot be suppressed.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func terminalFD(file *os.File) (int, bool) {
	if file == nil {
		return 0, false
	}
	maxInt := int(^uint(0) >> 1)
	fd := file.Fd()
	if fd > uintptr(maxInt) {
		return 0, false
	}
	return int(fd), true
}

func isTerminal(file *os.File) bool {
	fd, ok := terminalFD(file)
	return ok && term.IsTerminal(fd)
}

func readPassword(file *os.File) ([]byte, error) {
	fd, ok := terminalFD(file)
	if !ok {
		return nil, errors.New("invalid terminal file descriptor")
	}
	return term.ReadPassword(fd)
}
