package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tally/call"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// searchPathFrom returns the spec file search directories stored in the
// kong model vars under [PathIdentifier]. Empty elements are dropped.
func searchPathFrom(ctx context.Context) []string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	joined, ok := ktx.Model.Vars()[PathIdentifier]
	if !ok {
		return nil
	}

	var dirs []string

	for _, dir := range strings.Split(
		joined, string(os.PathListSeparator),
	) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openInput opens the named input file, or returns stdin for "-".
// The caller must close the returned reader.
func openInput(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return file, nil
}

// findSpecFile resolves name against the search directories.
// Absolute paths and paths that resolve relative to the working directory
// are used as-is.
func findSpecFile(name string, dirs []string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrSpecFile.
		With(slog.String("file", name)).
		With(slog.String("path", strings.Join(
			dirs, string(os.PathListSeparator),
		))).
		Wrap(os.ErrNotExist)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks and absolute/relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// readSpecFiles reads call spec lines from the named files, resolving each
// name against the search directories. Files are deduplicated by device and
// inode so the same file listed twice (or reached through a symlink)
// contributes its specs once. Blank lines and lines starting with '#' are
// skipped.
func readSpecFiles(names, dirs []string) ([]string, error) {
	var specs []string

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		path, err := findSpecFile(name, dirs)
		if err != nil {
			return nil, err
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			if info, err := os.Stat(resolved); err == nil {
				if key, ok := makeFileKey(info); ok {
					if _, dup := seen[key]; dup {
						continue
					}

					seen[key] = struct{}{}
				}
			}
		}

		lines, err := readSpecLines(path)
		if err != nil {
			return nil, err
		}

		specs = append(specs, lines...)
	}

	return specs, nil
}

// readSpecLines reads nonempty, noncomment lines from the file at path.
func readSpecLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrSpecFile.
			With(slog.String("file", path)).
			Wrap(err)
	}
	defer file.Close()

	var lines []string

	scan := bufio.NewScanner(file)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	if err := scan.Err(); err != nil {
		return nil, ErrSpecFile.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return lines, nil
}

// specLabel matches an explicit result name preceding '=' in a call spec.
var specLabel = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)

// splitNamed separates an optional "name=" prefix from a call spec.
// The prefix is recognized only when it is a bare identifier followed by a
// single '=', so comparison operators inside the expression are untouched.
func splitNamed(spec string) (name, source string) {
	m := specLabel.FindStringSubmatch(spec)
	if m == nil {
		return "", spec
	}

	return m[1], strings.TrimSpace(spec[strings.Index(spec, "=")+1:])
}

// normalizeSpecs defers each call spec, honoring "name=" prefixes.
func normalizeSpecs(
	specs []string, opts ...call.Option,
) (*call.List, error) {
	entries := make([]*call.Deferred, 0, len(specs))

	for _, spec := range specs {
		name, source := splitNamed(spec)

		d, err := call.Defer(source, opts...)
		if err != nil {
			return nil, err
		}

		if name != "" {
			d = d.As(name)
		}

		entries = append(entries, d)
	}

	return call.ListOf(entries...), nil
}
