package partid

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Resolver looks up identities in the by-* symlink directories under Root.
//
// Every call reads the filesystem fresh; nothing is cached between calls.
// Lookups are retried Attempts times with Delay between tries, since the
// device manager populates the symlinks asynchronously after hot-plug.
type Resolver struct {
	Root     string
	Attempts int
	Delay    time.Duration
	Logger   *slog.Logger
}

// NewResolver creates a resolver rooted at root with the default retry policy.
// An empty root means DefaultRoot.
func NewResolver(root string, logger *slog.Logger) *Resolver {
	if root == "" {
		root = DefaultRoot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		Root:     root,
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		Logger:   logger,
	}
}

var (
	defaultResolver *Resolver
	once            sync.Once
)

// Default returns the resolver used by the package-level functions.
func Default() *Resolver {
	once.Do(func() {
		defaultResolver = NewResolver(DefaultRoot, nil)
	})
	return defaultResolver
}

// Dir returns the symlink directory of source under the resolver's root.
func (r *Resolver) Dir(source Source) string {
	root := r.Root
	if root == "" {
		root = DefaultRoot
	}
	return source.dirUnder(root)
}

// Find returns the identity of the given source kind whose symlink
// resolves to the device at path.
func (r *Resolver) Find(source Source, path string) (Identity, bool) {
	if !source.Valid() {
		return Identity{}, false
	}
	target := r.Canonicalize(path)
	dir := r.Dir(source)

	name, ok := attempt(r.Attempts, r.Delay, func() (string, bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false
		}
		for _, entry := range entries {
			if r.Canonicalize(filepath.Join(dir, entry.Name())) == target {
				return entry.Name(), true
			}
		}
		return "", false
	}, func(try int) {
		r.logger().Debug("identity not found, retrying",
			slog.String("source", source.Key()),
			slog.String("path", target),
			slog.Int("attempt", try))
	})
	if !ok {
		return Identity{}, false
	}
	return New(source, name), true
}

// DevicePath returns the canonical device path that id refers to.
// An absolute path identity is returned as is.
func (r *Resolver) DevicePath(id Identity) (string, bool) {
	if !id.Source.Valid() {
		return "", false
	}
	if id.Source == SourcePath && strings.HasPrefix(id.Value, "/") {
		return id.Value, true
	}
	dir := r.Dir(id.Source)

	link, ok := attempt(r.Attempts, r.Delay, func() (string, bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false
		}
		for _, entry := range entries {
			if entry.Name() == id.Value {
				return filepath.Join(dir, entry.Name()), true
			}
		}
		return "", false
	}, func(try int) {
		r.logger().Debug("device path not found, retrying",
			slog.String("source", id.Source.Key()),
			slog.String("value", id.Value),
			slog.Int("attempt", try))
	})
	if !ok {
		return "", false
	}
	// A dangling link names no device
	path, ok := r.canonicalize(link)
	if !ok {
		r.logger().Debug("symlink does not resolve",
			slog.String("source", id.Source.Key()),
			slog.String("value", id.Value))
		return "", false
	}
	return path, true
}

// Canonicalize resolves path to an absolute path free of symlinks, falling
// back to path itself when it cannot be resolved within the retry budget.
func (r *Resolver) Canonicalize(path string) string {
	if resolved, ok := r.canonicalize(path); ok {
		return resolved
	}
	return path
}

func (r *Resolver) canonicalize(path string) (string, bool) {
	return attempt(r.Attempts, r.Delay, func() (string, bool) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", false
		}
		canon, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", false
		}
		return canon, true
	}, nil)
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Find returns the identity of the given source kind for the device at path.
func Find(source Source, path string) (Identity, bool) {
	return Default().Find(source, path)
}

// FindUUID returns the UUID of the device at path.
func FindUUID(path string) (Identity, bool) {
	return Find(SourceUUID, path)
}

// FindPartUUID returns the PARTUUID of the device at path.
func FindPartUUID(path string) (Identity, bool) {
	return Find(SourcePartUUID, path)
}
