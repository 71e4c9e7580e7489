// Package slot holds the images shown by one viewer window.
//
// A Slot keeps the last Size decoded images in a ring keyed by canonical
// path and modification time, together with the display configuration of
// the window. Reopening a buffered file that did not change on disk skips
// decoding entirely.
package slot

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mdouchement/pxlpeep"
	"github.com/mdouchement/pxlpeep/display"
	"github.com/pkg/errors"
)

// Size is the number of buffered images.
const Size = 10

// Options configures a Slot.
type Options struct {
	// Logger receives cache traces and failures.
	Logger *slog.Logger
	// Config is the initial display configuration.
	Config display.Config
	// Load holds the options given to every decoded ImageData.
	Load []func(*pxlpeep.Options)
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithConfig sets the initial display configuration.
func WithConfig(cfg display.Config) func(*Options) {
	return func(o *Options) {
		o.Config = cfg
	}
}

// WithLoadOptions sets the options of decoded images (allocator, raw order...).
func WithLoadOptions(opts ...func(*pxlpeep.Options)) func(*Options) {
	return func(o *Options) {
		o.Load = append(o.Load, opts...)
	}
}

type entry struct {
	path    string
	modTime time.Time
	image   *pxlpeep.ImageData
	exif    *pxlpeep.Exif
}

// A Slot is the image cache and display state of one window.
// It is not safe for concurrent use.
type Slot struct {
	opts       Options
	translator *display.Translator
	cfg        display.Config

	entries [Size]*entry
	cursor  int // last filled entry
	current int // displayed entry, -1 when none

	held  bool
	frame *image.RGBA
}

// New returns an empty Slot rendering through translator.
func New(translator *display.Translator, opts ...func(*Options)) *Slot {
	s := &Slot{
		opts:       Options{Config: display.DefaultConfig()},
		translator: translator,
		current:    -1,
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.Logger == nil {
		s.opts.Logger = slog.Default()
	}
	s.cfg = s.opts.Config
	return s
}

// Open displays the image at path, decoding it only when it is not buffered
// or changed on disk since it was buffered. On failure the previously
// displayed image stays current and the buffer is untouched.
func (s *Slot) Open(path string) error {
	canonical, err := canonicalPath(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(canonical)
	if err != nil {
		return errors.Wrap(err, "could not stat image")
	}
	log := s.opts.Logger.With("path", canonical)

	if i := s.find(canonical); i >= 0 {
		e := s.entries[i]
		if e.modTime.Equal(fi.ModTime()) {
			log.Debug("image buffered", "slot", i)
			s.current = i
			return s.translate()
		}

		log.Debug("image changed on disk, reloading", "slot", i)
		exif, err := e.image.ReadImage(canonical)
		if err != nil {
			return errors.Wrap(err, "could not reload image")
		}
		e.exif = exif
		e.modTime = fi.ModTime()
		s.current = i
		return s.translate()
	}

	log.Debug("image not buffered, loading from disk")
	img, exif, err := pxlpeep.Load(canonical, s.opts.Load...)
	if err != nil {
		return errors.Wrap(err, "could not load image")
	}

	s.cursor = (s.cursor + 1) % Size
	if old := s.entries[s.cursor]; old != nil {
		log.Debug("evicting image", "slot", s.cursor, "evicted", old.path)
		old.image.Release()
	}
	img.SetPainter(s)
	s.entries[s.cursor] = &entry{path: canonical, modTime: fi.ModTime(), image: img, exif: exif}
	s.current = s.cursor

	log.Debug("image buffered", "slot", s.cursor, "buffer", s.Buffered())
	return s.translate()
}

func (s *Slot) find(path string) int {
	for i, e := range s.entries {
		if e != nil && e.path == path {
			return i
		}
	}
	return -1
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "could not resolve path")
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(err, "could not resolve path")
	}
	return canonical, nil
}

func (s *Slot) entry() *entry {
	if s.current < 0 {
		return nil
	}
	return s.entries[s.current]
}

// Current returns the displayed image, nil when none.
func (s *Slot) Current() *pxlpeep.ImageData {
	if e := s.entry(); e != nil {
		return e.image
	}
	return nil
}

// Exif returns the metadata of the displayed image, nil when none.
func (s *Slot) Exif() *pxlpeep.Exif {
	if e := s.entry(); e != nil {
		return e.exif
	}
	return nil
}

// Path returns the canonical path of the displayed image.
func (s *Slot) Path() string {
	if e := s.entry(); e != nil {
		return e.path
	}
	return ""
}

// Buffered returns the paths of the buffered images in slot order.
func (s *Slot) Buffered() []string {
	var paths []string
	for _, e := range s.entries {
		if e != nil {
			paths = append(paths, e.path)
		}
	}
	return paths
}

// Frame returns the last translated frame.
func (s *Slot) Frame() *image.RGBA {
	return s.frame
}

// Params returns the translation parameters of the last frame.
func (s *Slot) Params() display.Params {
	return s.translator.Params()
}

// Colorbar renders the palette gradient of the last frame.
func (s *Slot) Colorbar(width, height int) *image.RGBA {
	return s.translator.Colorbar(width, height)
}

// ParamsString encodes the display configuration of the current image for
// file names.
func (s *Slot) ParamsString() string {
	img := s.Current()
	if img == nil {
		return ""
	}
	return display.ParamsString(s.cfg, img.Channels())
}

// Close releases every buffered image.
func (s *Slot) Close() {
	for i, e := range s.entries {
		if e != nil {
			e.image.Release()
			s.entries[i] = nil
		}
	}
	s.current = -1
	s.frame = nil
}

// SignalNewData implements pxlpeep.Painter.
func (s *Slot) SignalNewData() error {
	return s.translate()
}

// HoldTranslation suspends translations until ReleaseTranslation, so that
// several settings can be changed at once.
func (s *Slot) HoldTranslation() {
	s.held = true
}

// ReleaseTranslation resumes translations and renders the current image.
func (s *Slot) ReleaseTranslation() error {
	s.held = false
	return s.translate()
}

func (s *Slot) translate() error {
	img := s.Current()
	if s.held || img == nil {
		return nil
	}

	frame, err := s.translator.Translate(img, s.cfg)
	if err != nil {
		return errors.Wrap(err, "could not translate image")
	}
	if s.cfg.Scaling == display.User {
		// keep the widened range of an empty user window
		s.cfg.UserMax = s.translator.Params().Max
	}
	s.frame = frame
	return nil
}
