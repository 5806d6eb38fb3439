package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/exparse/calc"
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

// Vars returns the kong variables referenced by command flag defaults.
func Vars() kong.Vars {
	return kong.Vars{
		"forkLevels": strconv.Itoa(calc.DefaultForkLevels),
		"forkDepth":  strconv.Itoa(calc.DefaultForkDepth),
		"maxDepth":   strconv.Itoa(calc.DefaultMaxDepth),
	}
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		read     []io.Reader
		hasStdin bool
		multi    io.Reader
	}

	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		io.Reader
		io.WriterTo
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// reader returns the concatenation of all source files in order, with stdin
// last if present.
func (s *sourceFiles) reader() io.Reader {
	if s.multi == nil {
		readers := s.read
		if s.hasStdin {
			readers = append(readers[:len(readers):len(readers)], os.Stdin)
		}

		s.multi = io.MultiReader(readers...)
	}

	return s.multi
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return s.reader().Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, s.reader())
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing an [io.Reader] that
// reads from the given source files.
//
// The function deduplicates readers by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader.
// The stdin reader is placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
// Returns nil if no source could be opened.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := statFileKey(os.Stdin)

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		reader, key, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		// Stdin may also be named explicitly, e.g. /dev/stdin.
		if stdinOK && key == stdinKey {
			if c, ok := reader.(io.Closer); ok {
				_ = c.Close()
			}

			srcs.hasStdin = true

			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (io.Reader, fileKey, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, fileKey{}, false
	}

	if _, exists := seen[key]; exists {
		return nil, key, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, false
	}

	return file, key, true
}

func statFileKey(f *os.File) (fileKey, bool) {
	if f == nil {
		return fileKey{}, false
	}

	info, err := f.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the io.Reader stored in ctx by WithSourceFiles.
// Returns nil if no reader was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// stdinPiped reports whether stdin is redirected from a file or pipe rather
// than attached to a terminal.
func stdinPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice == 0
}

// parseInput parses the expression given by args. Without args, the source
// files in ctx are read, then stdin when it is not a terminal.
func parseInput(
	ctx context.Context,
	args []string,
	opts ...calc.Option,
) (*calc.Tree, error) {
	var (
		tree *calc.Tree
		err  error
	)

	switch src := sourceFilesFrom(ctx); {
	case len(args) > 0:
		tree, err = calc.ParseString(ctx, strings.Join(args, " "), opts...)

	case src != nil:
		tree, err = calc.ParseReader(ctx, src, opts...)

	case stdinPiped():
		tree, err = calc.ParseReader(ctx, os.Stdin, opts...)

	default:
		return nil, ErrNoInput
	}

	if err != nil {
		return nil, ErrParse.With(slog.Int("args", len(args))).Wrap(err)
	}

	return tree, nil
}
