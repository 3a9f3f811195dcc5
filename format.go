package impro

import "strings"

// Format is a raster file format this package can write.
type Format int

const (
	Unknown Format = iota
	PNG
	JPEG
	BMP
	TGA
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TGA:
		return "tga"
	}
	return "unknown"
}

var formatBySuffix = map[string]Format{
	".png": PNG,
	".jpg": JPEG,
	".bmp": BMP,
	".tga": TGA,
}

// FormatOf picks the format from the suffix after the last dot of
// filename. Matching is case-sensitive: "a.PNG" is Unknown.
func FormatOf(filename string) Format {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return Unknown
	}
	return formatBySuffix[filename[i:]]
}
