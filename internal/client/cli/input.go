package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams over golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine returns the next line from r without its line ending. The REPL
// and every prompt share one reader, so piped input is consumed in order.
// io.EOF is returned only when nothing was left to read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// GetSimpleText shows prompt on w and returns the trimmed answer.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := readLine(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetChoice asks until the answer is one of choices (case-insensitive). An
// empty answer picks def.
func GetChoice(reader *bufio.Reader, prompt string, choices []string, def string, w io.Writer) (string, error) {
	full := fmt.Sprintf("%s [%s] (default %s)", prompt, strings.Join(choices, "/"), def)
	for {
		answer, err := GetSimpleText(reader, full, w)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return def, nil
		}
		for _, c := range choices {
			if strings.EqualFold(answer, c) {
				return c, nil
			}
		}
		fmt.Fprintf(w, "%q is not one of %s\n", answer, strings.Join(choices, ", "))
	}
}

// GetPassword reads a password without echo when stdin is a terminal. With
// piped input it reads the next line from reader instead.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetJSONBody collects lines until an empty one and returns them as a JSON
// document. No lines at all means no body (nil, nil).
func GetJSONBody(reader *bufio.Reader, w io.Writer) (json.RawMessage, error) {
	if _, err := fmt.Fprint(w, "Enter JSON body (empty line to finish)\n"); err != nil {
		return nil, err
	}

	var b strings.Builder
	for {
		line, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if err != nil || line == "" {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	doc := strings.TrimSpace(b.String())
	if doc == "" {
		return nil, nil
	}
	if !json.Valid([]byte(doc)) {
		return nil, errors.New("body is not valid JSON")
	}
	return json.RawMessage(doc), nil
}
