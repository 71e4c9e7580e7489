package slot

import (
	"image"

	"github.com/mdouchement/pxlpeep"
	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/mdouchement/pxlpeep/display"
)

// Config returns the display configuration.
func (s *Slot) Config() display.Config {
	return s.cfg
}

// SetConfig replaces the whole display configuration.
func (s *Slot) SetConfig(cfg display.Config) error {
	if cfg == s.cfg {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return s.translate()
}

// SetScaleMode sets the scaling mode.
func (s *Slot) SetScaleMode(m display.Scaling) error {
	if m == s.cfg.Scaling {
		return nil
	}
	return s.update(func(cfg *display.Config) { cfg.Scaling = m })
}

// SetFunction sets the windowing function.
func (s *Slot) SetFunction(f display.Function) error {
	if f == s.cfg.Function {
		return nil
	}
	return s.update(func(cfg *display.Config) { cfg.Function = f })
}

// SetRotation sets the rotation.
func (s *Slot) SetRotation(r display.Rotation) error {
	if r == s.cfg.Rotation {
		return nil
	}
	return s.update(func(cfg *display.Config) { cfg.Rotation = r })
}

// SetFlip sets the horizontal and vertical flips.
func (s *Slot) SetFlip(horizontal, vertical bool) error {
	if horizontal == s.cfg.FlipH && vertical == s.cfg.FlipV {
		return nil
	}
	return s.update(func(cfg *display.Config) { cfg.FlipH, cfg.FlipV = horizontal, vertical })
}

// SetChannels sets the displayed channels.
func (s *Slot) SetChannels(c display.Channels) error {
	if c == s.cfg.Channels {
		return nil
	}
	return s.update(func(cfg *display.Config) { cfg.Channels = c })
}

// SetUserMin sets the lower bound of the User scaling.
func (s *Slot) SetUserMin(v float64) error {
	if v == s.cfg.UserMin {
		return nil
	}
	s.cfg.UserMin = v
	if s.cfg.Scaling != display.User {
		return nil
	}
	return s.translate()
}

// SetUserMax sets the upper bound of the User scaling.
func (s *Slot) SetUserMax(v float64) error {
	if v == s.cfg.UserMax {
		return nil
	}
	s.cfg.UserMax = v
	if s.cfg.Scaling != display.User {
		return nil
	}
	return s.translate()
}

// SetDipFactor sets the strength of the brighten/darken curves.
func (s *Slot) SetDipFactor(d float64) error {
	if d == s.cfg.DipFactor {
		return nil
	}
	cfg := s.cfg
	if err := cfg.SetDipFactor(d); err != nil {
		return err
	}
	s.cfg = cfg
	return s.translate()
}

// SetColormap sets the palette.
func (s *Slot) SetColormap(p colormap.Palette) error {
	if p == s.cfg.Palette {
		return nil
	}
	return s.update(func(cfg *display.Config) { cfg.Palette = p })
}

func (s *Slot) update(fn func(*display.Config)) error {
	cfg := s.cfg
	fn(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return s.translate()
}

// WhiteBalance white-balances the current image on roi and refreshes the frame.
func (s *Slot) WhiteBalance(roi image.Rectangle) error {
	img := s.Current()
	if img == nil {
		return pxlpeep.ErrNoImage
	}
	return img.WhiteBalance(roi)
}

// ResetWhiteBalance undoes every white balance of the current image.
func (s *Slot) ResetWhiteBalance() error {
	img := s.Current()
	if img == nil {
		return pxlpeep.ErrNoImage
	}
	return img.ResetWhiteBalance()
}

// Stats returns the statistics of the current image over roi.
func (s *Slot) Stats(roi image.Rectangle) ([]pxlpeep.ChannelStats, error) {
	img := s.Current()
	if img == nil {
		return nil, pxlpeep.ErrNoImage
	}
	return img.Stats(roi)
}

// Inspect returns the source coordinates and samples of the image pixel
// displayed at frame position (dx, dy).
func (s *Slot) Inspect(dx, dy int) (x, y int, samples []uint16, ok bool) {
	img := s.Current()
	if img == nil {
		return 0, 0, nil, false
	}
	x, y, ok = display.SourceCoords(dx, dy, img.Width(), img.Height(), s.cfg)
	if !ok {
		return 0, 0, nil, false
	}
	samples = make([]uint16, img.Channels())
	for c := range samples {
		samples[c] = img.Pixel(x, y, c)
	}
	return x, y, samples, true
}
