package kif

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/ontokit/axigen/errors"
)

// ErrorSeverity indicates the severity level of a reader error
type ErrorSeverity string

const (
	SeverityError   ErrorSeverity = "error"   // Malformed input that prevents reading
	SeverityWarning ErrorSeverity = "warning" // Best-effort reading warnings
)

// ErrorKind categorizes reader errors for programmatic handling
type ErrorKind string

const (
	ErrorKindSyntax ErrorKind = "syntax" // Unbalanced parens, stray tokens
	ErrorKindIO     ErrorKind = "io"     // Underlying file error
)

// ParseError represents a structured reader error with source position
type ParseError struct {
	Err         error         // Underlying error
	Kind        ErrorKind     // Error category
	Severity    ErrorSeverity // Error severity
	Message     string        // Human-readable message
	File        string        // Source file
	Line        int           // 1-based line where the error occurred
	Suggestions []string      // Possible fixes
	Timestamp   time.Time     // When the error occurred
}

// Error implements the error interface
func (e *ParseError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// FormatTerminal renders a rich colored error for terminal display
func (e *ParseError) FormatTerminal() string {
	var baseMsg string
	switch e.Severity {
	case SeverityError:
		baseMsg = pterm.Red(e.Message)
	case SeverityWarning:
		baseMsg = pterm.Yellow(e.Message)
	default:
		baseMsg = e.Message
	}

	out := baseMsg
	if e.File != "" {
		out += fmt.Sprintf("\n  %s %s:%d", pterm.Yellow("Location:"), e.File, e.Line)
	}
	if len(e.Suggestions) > 0 {
		out += fmt.Sprintf("\n  %s", pterm.Green("Suggestions:"))
		for _, s := range e.Suggestions {
			out += fmt.Sprintf("\n    • %s", s)
		}
	}
	return out
}

func newParseError(kind ErrorKind, file string, line int, msg string, suggestions ...string) *ParseError {
	return &ParseError{
		Kind:        kind,
		Severity:    SeverityError,
		Message:     msg,
		File:        file,
		Line:        line,
		Suggestions: suggestions,
		Timestamp:   time.Now(),
	}
}

// token is a single lexical unit with its source line.
type token struct {
	text string
	line int
}

// Read parses SUO-KIF formulas from r, attributing provenance to file.
// Comments (;) and blank lines are skipped. Returns every top-level
// s-expression as a Formula in source order.
func Read(r io.Reader, file string) ([]*Formula, error) {
	tokens, err := tokenize(r, file)
	if err != nil {
		return nil, err
	}

	var formulas []*Formula
	pos := 0
	for pos < len(tokens) {
		term, next, err := parseTerm(tokens, pos, file)
		if err != nil {
			return nil, err
		}
		if term.IsAtom() {
			return nil, newParseError(ErrorKindSyntax, file, tokens[pos].line,
				fmt.Sprintf("top-level atom %q outside a formula", term.Atom),
				"wrap the expression in parentheses")
		}
		formulas = append(formulas, New(term, file, tokens[pos].line))
		pos = next
	}
	return formulas, nil
}

// ReadFile parses all formulas from a knowledge-base file.
func ReadFile(path string) ([]*Formula, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open KB file %s", path)
	}
	defer f.Close()
	return Read(f, path)
}

// ReadString parses formulas from an in-memory string. Provenance is
// attributed to the given pseudo-file name (tests typically pass "inline").
func ReadString(src, file string) ([]*Formula, error) {
	return Read(strings.NewReader(src), file)
}

func tokenize(r io.Reader, file string) ([]token, error) {
	var tokens []token
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		i := 0
		for i < len(line) {
			c := line[i]
			switch {
			case c == ';':
				// Comment runs to end of line
				i = len(line)
			case c == '(' || c == ')':
				tokens = append(tokens, token{text: string(c), line: lineNo})
				i++
			case c == '"':
				// Quoted string, kept verbatim including quotes
				j := i + 1
				for j < len(line) && line[j] != '"' {
					if line[j] == '\\' {
						j++
					}
					j++
				}
				if j >= len(line) {
					return nil, newParseError(ErrorKindSyntax, file, lineNo,
						"unterminated string literal",
						"close the string with a double quote")
				}
				tokens = append(tokens, token{text: line[i : j+1], line: lineNo})
				i = j + 1
			case c == ' ' || c == '\t' || c == '\r':
				i++
			default:
				j := i
				for j < len(line) && !strings.ContainsRune("() \t\r;", rune(line[j])) {
					j++
				}
				tokens = append(tokens, token{text: line[i:j], line: lineNo})
				i = j
			}
		}
	}
	if err := scanner.Err(); err != nil {
		pe := newParseError(ErrorKindIO, file, lineNo, "failed reading input")
		pe.Err = err
		return nil, pe
	}
	return tokens, nil
}

// parseTerm parses one term starting at pos, returning the term and the
// position just past it.
func parseTerm(tokens []token, pos int, file string) (*Term, int, error) {
	tok := tokens[pos]
	if tok.text == ")" {
		return nil, 0, newParseError(ErrorKindSyntax, file, tok.line,
			"unexpected closing parenthesis",
			"check for an extra ')' or a missing '('")
	}
	if tok.text != "(" {
		return NewAtom(tok.text), pos + 1, nil
	}

	list := []*Term{}
	pos++
	for {
		if pos >= len(tokens) {
			return nil, 0, newParseError(ErrorKindSyntax, file, tok.line,
				"unbalanced parentheses: formula never closed",
				"add the missing ')'")
		}
		if tokens[pos].text == ")" {
			return NewList(list...), pos + 1, nil
		}
		sub, next, err := parseTerm(tokens, pos, file)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, sub)
		pos = next
	}
}
