package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func whiteBalanceCommand() *cobra.Command {
	var (
		df  displayFlags
		lf  loadFlags
		roi string
		out string
	)

	c := &cobra.Command{
		Use:   "wb FILE",
		Short: "White-balance an image on a region and render the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := df.config()
			if err != nil {
				return err
			}
			r, err := parseRect(roi)
			if err != nil {
				return err
			}

			s := newSlot(colormap.New(), cfg, lf.options(lf.allocator()))
			defer s.Close()

			path := args[0]
			if err = s.Open(path); err != nil {
				return errors.Wrapf(err, "%s", path)
			}
			if err = s.WhiteBalance(r); err != nil {
				return errors.Wrap(err, "could not white-balance")
			}

			img := s.Current()
			if img.Channels() == 1 {
				fmt.Printf("Bayer gains [x%%2][y%%2]: %v\n", img.BayerGains())
			} else {
				fmt.Printf("Channel gains: %v\n", img.Gains())
			}

			if out == "" {
				return nil
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_wb" + s.ParamsString() + ".png"
			dst := filepath.Join(out, name)
			if err = writePNG(dst, s.Frame()); err != nil {
				return err
			}
			slog.Info("rendered", "path", path, "output", dst)
			return nil
		},
	}

	df.register(c.Flags())
	lf.register(c.Flags())
	c.Flags().StringVar(&roi, "roi", "", "Neutral region x0,y0,x1,y1")
	c.Flags().StringVarP(&out, "out", "o", "", "Output folder of the balanced render")
	_ = c.MarkFlagRequired("roi")

	return c
}
