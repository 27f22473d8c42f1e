// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// EOFSeparator treats the whole script as a single statement.
	EOFSeparator = "^^^ END OF SCRIPT ^^^"

	// fallbackSeparator is used when the script does not contain the
	// configured separator anywhere outside of quotes and comments.
	fallbackSeparator = "\n"
)

// ErrUnterminatedComment is returned for a "/*" comment with no closing "*/".
var ErrUnterminatedComment = errors.New("missing block comment end delimiter")

// SplitStatements splits script into statements on separator.
//
// Separators inside single or double quotes, "--" line comments and
// "/* */" block comments are ignored. Inside quotes a backslash escapes the
// next character and a doubled quote is a literal quote. Comments are
// stripped. When the script contains no separator at all, each line is a
// statement. Empty statements are dropped.
func SplitStatements(script, separator string) ([]string, error) {
	if separator == "" {
		separator = DefaultSeparator
	}
	if separator == EOFSeparator {
		stripped, err := stripComments(script)
		if err != nil {
			return nil, err
		}
		if stmt := strings.TrimSpace(stripped); stmt != "" {
			return []string{stmt}, nil
		}
		return nil, nil
	}
	if separator != fallbackSeparator {
		found, err := containsSeparator(script, separator)
		if err != nil {
			return nil, err
		}
		if !found {
			separator = fallbackSeparator
		}
	}

	var stmts []string
	var sb strings.Builder
	flush := func() {
		if stmt := strings.TrimSpace(sb.String()); stmt != "" {
			stmts = append(stmts, stmt)
		}
		sb.Reset()
	}

	err := scan(script, func(i int, quoted bool) int {
		if !quoted && strings.HasPrefix(script[i:], separator) {
			flush()
			return len(separator)
		}
		sb.WriteByte(script[i])
		return 1
	})
	if err != nil {
		return nil, err
	}
	flush()
	return stmts, nil
}

// containsSeparator reports whether separator occurs outside of quotes
// and comments.
func containsSeparator(script, separator string) (bool, error) {
	found := false
	err := scan(script, func(i int, quoted bool) int {
		if !quoted && strings.HasPrefix(script[i:], separator) {
			found = true
		}
		return 1
	})
	return found, err
}

func stripComments(script string) (string, error) {
	var sb strings.Builder
	err := scan(script, func(i int, _ bool) int {
		sb.WriteByte(script[i])
		return 1
	})
	return sb.String(), err
}

// scan walks script skipping comments. For every byte outside a comment
// it calls fn with the byte offset and whether the byte is inside a quoted
// literal; fn returns how many bytes it consumed and must consume exactly
// one byte when quoted is true. A line comment is replaced by the newline
// that ends it.
func scan(script string, fn func(i int, quoted bool) int) error {
	var quote byte
	for i := 0; i < len(script); {
		c := script[i]
		if quote == 0 {
			if strings.HasPrefix(script[i:], "--") {
				end := strings.IndexByte(script[i:], '\n')
				if end < 0 {
					return nil
				}
				i += end
				continue
			}
			if strings.HasPrefix(script[i:], "/*") {
				end := strings.Index(script[i+2:], "*/")
				if end < 0 {
					return fmt.Errorf("offset %d: %w", i, ErrUnterminatedComment)
				}
				i += end + 4
				continue
			}
			if c == '\'' || c == '"' {
				quote = c
				i += fn(i, true)
				continue
			}
			i += fn(i, false)
			continue
		}
		switch {
		case c == '\\' && i+1 < len(script):
			fn(i, true)
			fn(i+1, true)
			i += 2
			continue
		case c == quote && i+1 < len(script) && script[i+1] == quote:
			// doubled quote
			fn(i, true)
			fn(i+1, true)
			i += 2
			continue
		case c == quote:
			quote = 0
		}
		i += fn(i, true)
	}
	return nil
}
