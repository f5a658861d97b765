// Package encoding provides text helpers for the string fields embedded in
// game data files.
package encoding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidText is returned when a string field is not valid UTF-8.
var ErrInvalidText = errors.New("invalid UTF-8 text")

// UTF8 validates data as UTF-8 and returns it as a string.
func UTF8(data []byte) (string, error) {
	result, n, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return "", fmt.Errorf("%w at byte %d", ErrInvalidText, n)
	}
	return string(result), nil
}

// Lines splits text into lines, accepting both LF and CRLF terminators.
// A final terminator does not produce a trailing empty line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// NormalizePath normalizes an archive path for lookup: backslashes become
// slashes and leading slashes are dropped.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimLeft(path, "/")
}
