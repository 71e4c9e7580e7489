package pxlpeep

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"

	jpeg2000 "github.com/mrjoshuak/go-jpeg2000"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

type decodeFunc func(r io.Reader) (image.Image, error)

// decoders maps upper-case file extensions to their decoder.
// RAW files are handled apart since their geometry comes from the file size.
var decoders = map[string]decodeFunc{
	"TIF":  tiff.Decode,
	"TIFF": tiff.Decode,
	"JPG":  jpeg.Decode,
	"JPEG": jpeg.Decode,
	"PNG":  png.Decode,
	"BMP":  bmp.Decode,
	"PSD":  decodePSD,
	"WEBP": webp.Decode,
	"JP2":  jpeg2000.Decode,
	"J2K":  jpeg2000.Decode,
	"HDR":  decodeHDR,
	"HLI":  decodeHDR,
}

const extRaw = "RAW"

// extension returns the upper-case extension of path without the dot.
func extension(path string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
}

// hasExif reports whether the extension may carry an EXIF APP1 segment.
func hasExif(ext string) bool {
	return ext == "JPG" || ext == "JPEG"
}

// Extensions returns the supported file extensions in upper case.
func Extensions() []string {
	exts := make([]string, 0, len(decoders)+1)
	for ext := range decoders {
		exts = append(exts, ext)
	}
	exts = append(exts, extRaw)
	sort.Strings(exts)
	return exts
}

// Supported reports whether path has a decodable extension.
func Supported(path string) bool {
	ext := extension(path)
	if ext == extRaw {
		return true
	}
	_, ok := decoders[ext]
	return ok
}
