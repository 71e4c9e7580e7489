package main

import (
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/mdouchement/pxlpeep/display"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func renderCommand() *cobra.Command {
	var (
		df       displayFlags
		lf       loadFlags
		out      string
		jobs     int
		zoom     int
		fit      string
		colorbar int
	)

	c := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render images to PNG with a display configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := df.config()
			if err != nil {
				return err
			}
			var box image.Point
			if fit != "" {
				if box, err = parsePoint(fit); err != nil {
					return err
				}
			}
			if err = os.MkdirAll(out, 0o755); err != nil {
				return errors.Wrap(err, "could not create output folder")
			}

			cm := colormap.New()
			alloc := lf.allocator()

			var g errgroup.Group
			g.SetLimit(max(jobs, 1))
			for _, path := range args {
				g.Go(func() error {
					s := newSlot(cm, cfg, lf.options(alloc))
					defer s.Close()

					if err := s.Open(path); err != nil {
						return errors.Wrapf(err, "%s", path)
					}

					var frame image.Image = s.Frame()
					level := zoom
					if fit != "" {
						b := frame.Bounds()
						level = display.FitLevel(box.X, box.Y, b.Dx(), b.Dy())
					}
					if level != 0 {
						frame = display.Zoom(frame, display.ZoomFactor(level))
					}

					name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + s.ParamsString()
					dst := filepath.Join(out, name+".png")
					if err := writePNG(dst, frame); err != nil {
						return errors.Wrapf(err, "%s", path)
					}
					slog.Info("rendered", "path", path, "output", dst)

					if colorbar > 0 {
						bar := s.Colorbar(colorbar, max(colorbar/25, 1))
						if err := writePNG(filepath.Join(out, name+"_colorbar.png"), bar); err != nil {
							return errors.Wrapf(err, "%s", path)
						}
					}
					return nil
				})
			}
			return g.Wait()
		},
	}

	df.register(c.Flags())
	lf.register(c.Flags())
	c.Flags().StringVarP(&out, "out", "o", ".", "Output folder")
	c.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Images rendered concurrently")
	c.Flags().IntVarP(&zoom, "zoom", "z", 0, "Zoom level, each step scales by sqrt(2)")
	c.Flags().StringVar(&fit, "fit", "", "Zoom to the largest level fitting a W,H box (overrides --zoom)")
	c.Flags().IntVar(&colorbar, "colorbar", 0, "Also write a colorbar of the given width")

	return c
}

// writePNG encodes m into path.
func writePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create output")
	}

	if err = png.Encode(f, m); err != nil {
		f.Close()
		return errors.Wrap(err, "could not encode output")
	}
	return errors.Wrap(f.Close(), "could not close output")
}
