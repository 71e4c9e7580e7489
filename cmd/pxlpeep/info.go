package main

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/mdouchement/pxlpeep"
	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/mdouchement/pxlpeep/slot"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func infoCommand() *cobra.Command {
	var (
		df  displayFlags
		lf  loadFlags
		roi string
		at  string
	)

	c := &cobra.Command{
		Use:   "info FILE...",
		Short: "Print image geometry, EXIF metadata and region statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := df.config()
			if err != nil {
				return err
			}

			s := newSlot(colormap.New(), cfg, lf.options(lf.allocator()))
			defer s.Close()

			for _, path := range args {
				if err := s.Open(path); err != nil {
					return errors.Wrapf(err, "%s", path)
				}
				printInfo(os.Stdout, s)

				if at != "" {
					p, err := parsePoint(at)
					if err != nil {
						return err
					}
					if x, y, samples, ok := s.Inspect(p.X, p.Y); ok {
						fmt.Printf("  Pixel at %v: source (%d, %d) = %v\n", p, x, y, samples)
					} else {
						fmt.Printf("  Pixel at %v: outside the image\n", p)
					}
				}

				if roi != "" {
					r, err := parseRect(roi)
					if err != nil {
						return err
					}
					if err = printStats(os.Stdout, s, r); err != nil {
						return errors.Wrapf(err, "%s", path)
					}
				}
			}
			return nil
		},
	}

	df.register(c.Flags())
	lf.register(c.Flags())
	c.Flags().StringVar(&roi, "roi", "", "Region x0,y0,x1,y1 for statistics")
	c.Flags().StringVar(&at, "at", "", "Display pixel x,y to inspect")

	return c
}

func printInfo(w io.Writer, s *slot.Slot) {
	img := s.Current()
	fmt.Fprintln(w, s.Path())
	fmt.Fprintf(w, "  W = %d, H = %d pix, %d channel(s), %d bits\n", img.Width(), img.Height(), img.Channels(), img.BPP())

	minX, minY := img.MinIndex()%img.Width(), img.MinIndex()/img.Width()
	maxX, maxY := img.MaxIndex()%img.Width(), img.MaxIndex()/img.Width()
	fmt.Fprintf(w, "  Min = %d at (%d, %d), Max = %d at (%d, %d)\n", img.Min(), minX, minY, img.Max(), maxX, maxY)

	p := s.Params()
	cfg := s.Config()
	fmt.Fprintf(w, "  Display: %s, %s, %s, %d deg, range [%g, %g]\n",
		cfg.Scaling, cfg.Function, cfg.Palette, cfg.Rotation.Degrees(), p.Min, p.Max)

	printExif(w, s.Exif())
}

func printExif(w io.Writer, e *pxlpeep.Exif) {
	if e == nil {
		return
	}
	if v, ok := e.Make(); ok {
		fmt.Fprintf(w, "  Make: %s\n", v)
	}
	if v, ok := e.Firmware(); ok {
		fmt.Fprintf(w, "  Firmware: %s\n", v)
	}
	if v, ok := e.Date(); ok {
		fmt.Fprintf(w, "  Date: %s\n", v)
	}
	if iso, ok := e.ISO(); ok {
		shutter, _ := e.Shutter()
		fmt.Fprintf(w, "  ISO = %d, shutter = %.2f ms", iso, shutter)
		if ev, ok := e.EV(); ok {
			fmt.Fprintf(w, ", EV = %.2f", ev)
		}
		fmt.Fprintln(w)
	}
	if v, ok := e.Aperture(); ok {
		fmt.Fprintf(w, "  Aperture: f/%g\n", v)
	}
	if sensor, dsp, battery, pmic, ok := e.Temperatures(); ok {
		fmt.Fprintf(w, "  Temperatures: sensor %g, DSP %g, battery %g, PMIC %g\n", sensor, dsp, battery, pmic)
	}
}

func printStats(w io.Writer, s *slot.Slot, roi image.Rectangle) error {
	stats, err := s.Stats(roi)
	if err != nil {
		return err
	}

	dx, dy, length := pxlpeep.Diagonal(roi)
	fmt.Fprintf(w, "  ROI %v: dx = %d, dy = %d, diagonal = %.2f\n", roi, dx, dy, length)
	for c, st := range stats {
		fmt.Fprintf(w, "  [%d] mean = %.2f, stddev = %.2f, min = %g, max = %g, n = %d\n", c, st.Mean, st.StdDev, st.Min, st.Max, st.Count)
	}
	return nil
}
