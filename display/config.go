package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/pkg/errors"
)

// Scaling selects how sample values are stretched over the palette.
type Scaling int

// Scaling modes.
const (
	// Fit maps the image min/max to the palette range.
	Fit Scaling = iota
	// Centered puts zero in the middle of the palette.
	Centered
	// User maps UserMin/UserMax to the palette range.
	User
)

// Function is the windowing function applied to every sample before scaling.
type Function int

// Windowing functions.
const (
	OneToOne Function = iota
	Log10
	Log10BrightenDark
	Log10DarkenLight
	BrightenDark
	DarkenLight
	numFunctions
)

// Rotation is a counter-clockwise rotation of the displayed image.
type Rotation int

// Rotations.
const (
	Zero Rotation = iota
	CCW90
	CCW180
	CCW270
)

// Channels is a mask of displayed color channels.
type Channels uint8

// Channel bits.
const (
	R Channels = 1 << iota
	G
	B

	RGB = R | G | B
)

// DefaultDipFactor is the strength of the brighten/darken curves.
const DefaultDipFactor = 1.5

var (
	// ErrInvalidConfig is returned when a Config field is out of range.
	ErrInvalidConfig = errors.New("display: invalid configuration")
	// ErrNegativeDip is returned by SetDipFactor for negative factors.
	ErrNegativeDip = errors.New("display: negative dip factor")
)

// Config is the display configuration of one window.
// Any combination of valid fields is allowed.
type Config struct {
	Scaling   Scaling
	Function  Function
	Rotation  Rotation
	FlipH     bool
	FlipV     bool
	Channels  Channels
	UserMin   float64
	UserMax   float64
	DipFactor float64
	Palette   colormap.Palette
}

// DefaultConfig returns the configuration of a fresh window.
func DefaultConfig() Config {
	return Config{
		Scaling:   User,
		Function:  OneToOne,
		Rotation:  Zero,
		Channels:  RGB,
		UserMin:   0,
		UserMax:   255,
		DipFactor: DefaultDipFactor,
		Palette:   colormap.Grey,
	}
}

// SetDipFactor sets the curve strength. Negative factors are rejected.
func (c *Config) SetDipFactor(d float64) error {
	if d < 0 {
		return errors.Wrapf(ErrNegativeDip, "%g", d)
	}
	c.DipFactor = d
	return nil
}

// Validate checks that every field is in range.
func (c Config) Validate() error {
	switch {
	case c.Scaling < Fit || c.Scaling > User:
		return errors.Wrapf(ErrInvalidConfig, "scaling %d", c.Scaling)
	case c.Function < OneToOne || c.Function >= numFunctions:
		return errors.Wrapf(ErrInvalidConfig, "function %d", c.Function)
	case c.Rotation < Zero || c.Rotation > CCW270:
		return errors.Wrapf(ErrInvalidConfig, "rotation %d", c.Rotation)
	case c.Channels&^RGB != 0:
		return errors.Wrapf(ErrInvalidConfig, "channels %#x", uint8(c.Channels))
	case c.DipFactor < 0:
		return errors.Wrapf(ErrNegativeDip, "%g", c.DipFactor)
	case !c.Palette.Valid():
		return errors.Wrapf(colormap.ErrInvalidPalette, "palette %d", c.Palette)
	}
	return nil
}

// single returns the channel to display alone and true when only one
// channel is visible.
func (c Config) single(channels int) (int, bool) {
	if channels == 1 {
		return 0, true
	}
	switch c.Channels {
	case R:
		return 0, true
	case G:
		return 1, true
	case B:
		return 2, true
	}
	return 0, false
}

var scalingNames = map[Scaling]string{
	Fit:      "fit",
	Centered: "centered",
	User:     "user",
}

var functionNames = map[Function]string{
	OneToOne:          "1:1",
	Log10:             "log10",
	Log10BrightenDark: "log10-brighten",
	Log10DarkenLight:  "log10-darken",
	BrightenDark:      "brighten",
	DarkenLight:       "darken",
}

func (s Scaling) String() string {
	if n, ok := scalingNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Scaling(%d)", int(s))
}

func (f Function) String() string {
	if n, ok := functionNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Function(%d)", int(f))
}

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int {
	return 90 * int(r)
}

func (c Channels) String() string {
	b := []byte("---")
	for i, l := range "RGB" {
		if c&(1<<i) != 0 {
			b[i] = byte(l)
		}
	}
	return string(b)
}

// ParseScaling parses a scaling name.
func ParseScaling(s string) (Scaling, error) {
	for k, v := range scalingNames {
		if strings.EqualFold(s, v) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "scaling %q", s)
}

// ParseFunction parses a windowing function name.
func ParseFunction(s string) (Function, error) {
	for k, v := range functionNames {
		if strings.EqualFold(s, v) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "function %q", s)
}

// ParseRotation parses an angle in degrees (0, 90, 180 or 270).
func ParseRotation(s string) (Rotation, error) {
	deg, err := strconv.Atoi(s)
	if err != nil || deg%90 != 0 || deg < 0 || deg > 270 {
		return 0, errors.Wrapf(ErrInvalidConfig, "rotation %q", s)
	}
	return Rotation(deg / 90), nil
}

// ParseChannels parses a channel list such as "RGB", "rb" or "G".
func ParseChannels(s string) (Channels, error) {
	var c Channels
	for _, l := range strings.ToUpper(s) {
		switch l {
		case 'R':
			c |= R
		case 'G':
			c |= G
		case 'B':
			c |= B
		case '-':
		default:
			return 0, errors.Wrapf(ErrInvalidConfig, "channels %q", s)
		}
	}
	return c, nil
}
