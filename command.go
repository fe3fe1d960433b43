package sprout

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/sproutlang/sprout/errors"
	"github.com/sproutlang/sprout/scanner"
)

const defaultShell = "/bin/sh"

// resolveCommands is the second pass of InterpolateCommands: it re-scans
// the variable-resolved text and executes each $(cmd) / `cmd` token in
// left-to-right order. Execution is strictly sequential because later
// command text may depend on earlier substitutions in the same string.
// Deferred \` and \$ escapes become their literal characters here, once
// they can no longer be mistaken for live syntax.
func (r *interpolator) resolveCommands(ctx context.Context, input string) (string, error) {
	feats := r.config.Features
	sc := scanner.New(input)
	var buf *strings.Builder

	for {
		tok, err := sc.Next()
		if err != nil {
			return "", err
		}
		if tok.Type == scanner.EOF {
			break
		}

		piece := input[tok.Start:tok.End]
		modified := false

		switch tok.Type {
		case scanner.COMMAND, scanner.BACKTICK_COMMAND:
			enabled := feats.Commands
			if tok.Type == scanner.BACKTICK_COMMAND {
				enabled = feats.BacktickCommands
			}
			if enabled {
				// Resolve any remaining variable syntax inside the
				// command text, escapes fully applied this time.
				command, err := r.resolve(tok.Text, 0, false)
				if err != nil {
					return "", err
				}
				output, err := r.execute(ctx, command)
				if err != nil {
					return "", err
				}
				piece = output
				modified = true
			}
		case scanner.ESCAPE:
			if feats.Escapes {
				piece = tok.Text
				modified = true
			}
		}

		if buf == nil {
			if !modified {
				continue
			}
			buf = &strings.Builder{}
			buf.Grow(len(input) + 32)
			buf.WriteString(input[:tok.Start])
		}
		buf.WriteString(piece)
	}

	if buf == nil {
		return input, nil
	}
	return buf.String(), nil
}

// execute runs one substituted command through the invoking user's shell
// and returns its stdout with trailing newlines stripped. A non-zero
// exit is a command error carrying the captured stderr; a failure to
// spawn at all is an io error. Context cancellation kills the process
// and surfaces the context error instead of partial output.
func (r *interpolator) execute(ctx context.Context, command string) (string, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = defaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", errors.NewIO(ctx.Err())
		}
		if _, ok := err.(*exec.ExitError); ok {
			return "", errors.NewCommand(stderr.String())
		}
		return "", errors.NewIO(err)
	}

	return strings.TrimRight(stdout.String(), "\r\n"), nil
}
