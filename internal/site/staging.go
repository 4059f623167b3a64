package site

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/ralog/internal/logfields"
)

// prepareOutput makes sure the output path is usable and returns the
// directory pages should be written into. In atomic mode that is a fresh
// sibling staging directory.
func prepareOutput(output string, atomic bool) (string, error) {
	output = filepath.Clean(output)
	info, err := os.Stat(output)
	switch {
	case err == nil && !info.IsDir():
		return "", ErrDestinationNotDir
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("stat output: %w", err)
	}

	if !atomic {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return "", fmt.Errorf("create output: %w", err)
		}
		return output, nil
	}

	stage := output + stagingSuffix
	if err := os.RemoveAll(stage); err != nil {
		return "", fmt.Errorf("clear staging directory: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	slog.Debug("Initialized staging directory", logfields.Path(stage))
	return stage, nil
}

// promoteStaging swaps the staging directory in place of output. The previous
// output is moved aside first and removed only after the swap succeeded.
func promoteStaging(stage, output string) error {
	if _, err := os.Stat(stage); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	output = filepath.Clean(output)
	prev := output + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}

	hadOutput := true
	if err := os.Rename(output, prev); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("move existing output aside: %w", err)
		}
		hadOutput = false
	}

	if err := os.Rename(stage, output); err != nil {
		if hadOutput {
			if rerr := os.Rename(prev, output); rerr != nil {
				slog.Error("Failed to restore previous output", logfields.Path(output), logfields.Error(rerr))
			}
		}
		return fmt.Errorf("promote staging directory: %w", err)
	}

	if hadOutput {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	return nil
}

// abortStaging removes an unpromoted staging directory.
func abortStaging(stage string) {
	if stage == "" {
		return
	}
	if err := os.RemoveAll(stage); err != nil {
		slog.Warn("Failed to remove staging directory after abort", logfields.Path(stage), logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory after abort", logfields.Path(stage))
}
