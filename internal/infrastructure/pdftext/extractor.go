// Package pdftext renders PDF bytes to layout-preserving plain text by
// shelling out to an external converter.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CommandExtractor pipes the document through a pdftotext-style command.
// The default invocation is `pdftotext -layout - -`.
type CommandExtractor struct {
	command string
	args    []string
}

// NewCommandExtractor uses the given command, or pdftotext when empty.
func NewCommandExtractor(command string, args ...string) *CommandExtractor {
	if command == "" {
		command = "pdftotext"
		args = []string{"-layout", "-", "-"}
	}
	return &CommandExtractor{command: command, args: args}
}

// ExtractText runs the converter with the PDF on stdin and returns stdout.
func (e *CommandExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Stdin = bytes.NewReader(pdf)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w (%s)", e.command, err, bytes.TrimSpace(errOut.Bytes()))
	}
	return out.String(), nil
}

// PassthroughExtractor treats the document bytes as already-extracted text.
// Used in tests and for pre-rendered .txt drops.
type PassthroughExtractor struct{}

// ExtractText returns the bytes as a string.
func (PassthroughExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	return string(pdf), nil
}
