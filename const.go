package pxlpeep

import "image"

// EXIF metadata of a JPEG file is stored in an APP1 segment as a small TIFF
// file: a byte order header followed by Image File Directories (IFD).
// An IFD entry consists of
//
//  - a tag, which describes the signification of the entry,
//  - the data type and length of the entry,
//  - the data itself or a pointer to it if it is more than 4 bytes.
//
// The Exif private tags live in a sub-IFD pointed by tExifIFD in IFD0.

const (
	leHeader = "II\x2A\x00" // Header for little-endian files.
	beHeader = "MM\x00\x2A" // Header for big-endian files.

	exifHeader = "Exif\x00\x00" // APP1 payload prefix.

	ifdLen = 12 // Length of an IFD entry in bytes.

	maxTagLen = 1 << 20 // Larger values are treated as corrupted entries.
)

// Data types (p. 14-16 of the TIFF spec).
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtSByte     = 6
	dtUndefined = 7
	dtSShort    = 8
	dtSLong     = 9
	dtSRational = 10
	dtFloat     = 11
	dtDouble    = 12
)

// The length of one instance of each data type in bytes.
var lengths = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Tags (see EXIF 2.3, p. 34-45).
const (
	tMake     = 0x010F
	tModel    = 0x0110
	tSoftware = 0x0131
	tExifIFD  = 0x8769

	tExposureTime     = 0x829A
	tFNumber          = 0x829D
	tISOSpeedRatings  = 0x8827
	tDateTimeOriginal = 0x9003
	tMakerNote        = 0x927C
)

// Vendor MakerNote layout carrying board temperatures.
const (
	mnMinLen       = 241
	mnMarkerOffset = 220
	mnMarkerValue  = 24
	mnSigOffset    = 224
	mnSensorOffset = 228
	mnDSPOffset    = 232
	mnBatOffset    = 236
	mnPMICOffset   = 240
)

var mnSignature = []byte{'T', 'E', 'M', 'P'}

// JPEG markers used to locate the APP1 segment.
const (
	markerStart = 0xFF
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerAPP1  = 0xE1
)

// Sample storage is always 16-bit.
const sampleSize = 2

// Raw sensor dumps: no header, 14-bit samples stored on 16 bits.
const rawBPP = 14

// rawResolutions lists the only accepted raw geometries, matched by file size.
var rawResolutions = []image.Point{
	{X: 4000, Y: 3000},
	{X: 3264, Y: 2448},
	{X: 4208, Y: 3120},
	{X: 4160, Y: 3120},
}

// PSD color modes (Adobe Photoshop File Formats Specification, "File Header Section").
const (
	psdBitmap       = 0
	psdGrayscale    = 1
	psdIndexed      = 2
	psdRGB          = 3
	psdCMYK         = 4
	psdMultichannel = 7
	psdDuotone      = 8
	psdLab          = 9
)

// PSD image data compression.
const (
	psdRaw        = 0
	psdRLE        = 1
	psdZIP        = 2
	psdZIPPredict = 3
)

const (
	psdSignature  = "8BPS"
	psdHeaderLen  = 26
	psdMaxChannel = 56
)
