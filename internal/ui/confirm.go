// Package ui holds kareha's terminal plumbing: the confirmation prompt,
// the progress spinner, and the colorized log handler.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prompts the user and returns true only for an affirmative answer.
// If def is true the prompt is skipped entirely and true is returned, which
// is how --yes bypasses confirmation. Otherwise the prompt is written with a
// "(y/N)" suffix and a single line is read: a trimmed, lowercased "y" means
// yes, anything else (including an empty line or a read error) means no.
func Confirm(w io.Writer, r io.Reader, prompt string, def bool) bool {
	if def {
		return true
	}

	fmt.Fprintf(w, "%s (y/N): ", prompt)

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}
