// Package folder walks the images of a directory and files them away.
package folder

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Options configures the folder operations.
type Options struct {
	// Logger receives traces and failures.
	Logger *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

func newOptions(opts []func(*Options)) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// A Navigator lists the siblings of an image sharing its extension, in
// natural order ("img2" before "img10").
type Navigator struct {
	opts     Options
	collator *collate.Collator

	dir   string
	files []string
	pos   int

	next string
	prev string
}

// NewNavigator returns a Navigator not yet synced to any file.
func NewNavigator(opts ...func(*Options)) *Navigator {
	return &Navigator{
		opts:     newOptions(opts),
		collator: collate.New(language.Und, collate.Numeric),
		pos:      -1,
	}
}

// Sync lists the directory of path and locates path in it.
// When path is not listed, the previous neighbours are kept.
func (n *Navigator) Sync(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "could not resolve path")
	}
	dir, name := filepath.Split(abs)
	ext := filepath.Ext(name)

	entries, err := os.ReadDir(dir)
	if err != nil {
		n.opts.Logger.Error("could not list folder", "dir", dir, "error", err)
		return errors.Wrap(err, "could not list folder")
	}

	files := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), e.Type().IsRegular() && filepath.Ext(e.Name()) == ext
	})
	n.collator.SortStrings(files)

	n.dir = dir
	n.files = files
	n.pos = lo.IndexOf(files, name)
	if n.pos < 0 {
		n.opts.Logger.Debug("file not found in folder", "path", abs, "files", len(files))
		return nil
	}

	last := len(files) - 1
	n.next = filepath.Join(dir, files[lo.Ternary(n.pos == last, 0, n.pos+1)])
	n.prev = filepath.Join(dir, files[lo.Ternary(n.pos == 0, last, n.pos-1)])
	n.opts.Logger.Debug("folder synced", "path", abs, "position", n.pos, "files", len(files))
	return nil
}

// Next returns the file after the synced one, wrapping to the first.
func (n *Navigator) Next() (string, bool) {
	return n.next, n.next != ""
}

// Prev returns the file before the synced one, wrapping to the last.
func (n *Navigator) Prev() (string, bool) {
	return n.prev, n.prev != ""
}

// Files returns the sorted file names of the synced folder.
func (n *Navigator) Files() []string {
	return n.files
}

// Dir returns the synced folder.
func (n *Navigator) Dir() string {
	return n.dir
}

// Pos returns the position of the synced file in Files, -1 when not found.
func (n *Navigator) Pos() int {
	return n.pos
}
