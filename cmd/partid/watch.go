package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sigreer/partid/internal/partid"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <identity>",
	Short: "Follow the device an identifier resolves to",
	Long: `Print the device path of an identity, then print it again every time
it changes as udev adds or removes symlinks. Runs until interrupted.

Examples:
  partid watch LABEL=backup
  partid watch PARTUUID=2f4ca112-01`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) {
	_, r := setup()

	id, err := partid.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watchIdentity(ctx, r, id, func(path string, ok bool) {
		if ok {
			fmt.Printf("%s  %s -> %s\n", time.Now().Format(time.TimeOnly), id, path)
		} else {
			fmt.Printf("%s  %s -> (not found)\n", time.Now().Format(time.TimeOnly), id)
		}
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// watchIdentity reports the resolution of id now and after every change to
// its symlink directory, until ctx is done.
func watchIdentity(ctx context.Context, r *partid.Resolver, id partid.Identity, report func(path string, ok bool)) error {
	// An absolute path identity never changes
	if id.Source == partid.SourcePath && strings.HasPrefix(id.Value, "/") {
		report(id.Value, true)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// The by-* directory may not exist until the first device of its kind
	// appears, so watch the root as well.
	dir := r.Dir(id.Source)
	if err := watcher.Add(r.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.Root, err)
	}
	if err := watcher.Add(dir); err != nil {
		slog.Debug("symlink directory not watchable yet", slog.String("dir", dir), slog.String("error", err.Error()))
	}

	path, ok := r.DevicePath(id)
	report(path, ok)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, open := <-watcher.Events:
			if !open {
				return nil
			}
			if event.Name == dir && event.Has(fsnotify.Create) {
				if err := watcher.Add(dir); err != nil {
					slog.Warn("failed to watch symlink directory", slog.String("dir", dir), slog.String("error", err.Error()))
				}
			}
			next, nextOK := r.DevicePath(id)
			if next != path || nextOK != ok {
				path, ok = next, nextOK
				report(path, ok)
			}
		case err, open := <-watcher.Errors:
			if !open {
				return nil
			}
			slog.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}
