package pxlpeep

// Resources:
// https://www.cipa.jp/std/documents/e/DC-008-2012_E.pdf (EXIF 2.3)
// https://www.adobe.com/devnet-apps/photoshop/fileformatashtml/ (PSD)
// https://radsite.lbl.gov/radiance/refer/filefmts.pdf (Radiance RGBE)

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
)

//------------------------//
// Reader                 //
//------------------------//

// Load decodes the image at path into a new ImageData.
func Load(path string, opts ...func(*Options)) (*ImageData, *Exif, error) {
	m := NewImageData(opts...)
	exif, err := m.ReadImage(path)
	if err != nil {
		return nil, nil, err
	}
	return m, exif, nil
}

// ReadImage decodes the image at path into m, reusing its buffer.
// The format is selected by the file extension. On failure m keeps its
// previous content.
func (m *ImageData) ReadImage(path string) (*Exif, error) {
	ext := extension(path)
	if ext == "" {
		return nil, UnsupportedError("file without extension")
	}

	if ext == extRaw {
		if err := m.readRaw(path); err != nil {
			return nil, err
		}
		m.opts.Logger.Debug("raw image loaded", "path", path, "image", m.String())
		return &Exif{}, nil
	}

	decode, ok := decoders[ext]
	if !ok {
		return nil, UnsupportedError("extension " + ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read image")
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode image")
	}

	if err = m.FeedDecoded(img); err != nil {
		return nil, err
	}

	exif := &Exif{}
	if hasExif(ext) {
		exif = readExif(data)
	}

	m.opts.Logger.Debug("image loaded", "path", path, "image", m.String())
	return exif, nil
}
