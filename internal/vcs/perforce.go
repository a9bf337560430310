// Package vcs checks files out of version control before they are saved.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// VersionControl is consulted before a scene document is saved.
type VersionControl interface {
	IsCheckoutNeeded() (bool, error)
	Checkout(ctx context.Context) error
}

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Perforce manages one file through the p4 command line client.
type Perforce struct {
	path string
	run  Runner
}

// NewPerforce returns a Perforce client for path. A nil runner uses
// ExecRunner.
func NewPerforce(path string, run Runner) *Perforce {
	if run == nil {
		run = ExecRunner
	}
	return &Perforce{path: path, run: run}
}

// Installed reports whether the p4 client is available and answers.
func (p *Perforce) Installed(ctx context.Context) bool {
	_, err := p.run(ctx, "p4", "info")
	return err == nil
}

// IsCheckoutNeeded reports whether the file exists but is read-only, which
// is how Perforce leaves files that are not opened for edit. A file that
// was never saved needs no checkout.
func (p *Perforce) IsCheckoutNeeded() (bool, error) {
	info, err := os.Stat(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", p.path, err)
	}
	return info.Mode().Perm()&0o200 == 0, nil
}

// Checkout opens the file for edit.
func (p *Perforce) Checkout(ctx context.Context) error {
	out, err := p.run(ctx, "p4", "edit", p.path)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("p4 edit %s: %w", p.path, err)
		}
		return fmt.Errorf("p4 edit %s: %w: %s", p.path, err, msg)
	}
	return nil
}
