package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// lineReader is the part of *readline.Instance the CLI reads from. Prompts
// and the command loop share it so no input is lost between them.
type lineReader interface {
	Readline() (string, error)
	ReadPassword(prompt string) ([]byte, error)
	SetPrompt(prompt string)
}

// isTerminal is a test seam; piped input is read without masking.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// GetSimpleText shows prompt and reads one trimmed line. If EOF occurs after
// some input was read, the partial line is returned.
func GetSimpleText(r lineReader, prompt string) (string, error) {
	r.SetPrompt(prompt + ": ")
	line, err := r.Readline()
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password without echo when stdin is a terminal.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(r lineReader, prompt string) ([]byte, error) {
	if !isTerminal() {
		s, err := GetSimpleText(r, prompt)
		return []byte(s), err
	}
	return r.ReadPassword(prompt + ": ")
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(r lineReader, prompt string) (string, error) {
	r.SetPrompt(prompt + " (empty line to finish)\n")

	var lines []string
	for {
		line, err := r.Readline()
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			break
		}
		lines = append(lines, line)
		r.SetPrompt("")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetList reads one line of comma separated values, dropping blanks.
func GetList(r lineReader, prompt string) ([]string, error) {
	line, err := GetSimpleText(r, prompt)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, v := range strings.Split(line, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
