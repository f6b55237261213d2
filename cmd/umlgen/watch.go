package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a diagram must stay unchanged before it is
// regenerated. Editors often write a file in several steps.
const settle = 200 * time.Millisecond

func watchCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f genFlags
	fs := newFlagSet("watch", stderr)
	f.register(fs, true)
	out := fs.String("o", ".", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := diagram(fs)
	if err != nil {
		return err
	}
	opts, err := f.options()
	if err != nil {
		return err
	}
	regenerate := func() {
		if err := generate(ctx, path, *out, false, opts, stdout); err != nil {
			slog.Error("generate project", "diagram", path, "error", err)
		}
	}
	regenerate()
	return watch(ctx, path, regenerate)
}

// watch calls fn after every change of the file at path until ctx is
// done. The directory is watched, so files replaced by a rename are
// followed.
func watch(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	slog.Info("watching diagram", "diagram", path)
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs || e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "diagram", path, "error", err)
		case <-timer.C:
			fn()
		}
	}
}
