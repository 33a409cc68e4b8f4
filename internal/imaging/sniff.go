package imaging

import (
	"bytes"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// FormatDICOM is reported for DICOM Part 10 files.
const FormatDICOM = "dicom"

// Info describes a stored image file.
type Info struct {
	Format   string
	Width    int
	Height   int
	Modality string
}

// dicomMagic sits after the 128-byte preamble of a Part 10 file.
var dicomMagic = []byte("DICM")

func isDICOM(head []byte) bool {
	return len(head) >= 132 && bytes.Equal(head[128:132], dicomMagic)
}

// Sniff identifies the file at path. Unknown formats yield an empty Info and
// no error: any file may be attached.
func Sniff(path string, r io.ReadSeeker) (Info, error) {
	head := make([]byte, 132)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Info{}, err
	}
	head = head[:n]
	if isDICOM(head) {
		return sniffDICOM(path)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Info{}, err
	}
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Info{}, nil
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func sniffDICOM(path string) (Info, error) {
	info := Info{Format: FormatDICOM}
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		// The magic matched; keep the format even if the body is damaged.
		return info, nil
	}
	info.Modality = elementString(ds, tag.Modality)
	info.Width, _ = strconv.Atoi(elementString(ds, tag.Columns))
	info.Height, _ = strconv.Atoi(elementString(ds, tag.Rows))
	return info, nil
}

func elementString(ds dicom.Dataset, t tag.Tag) string {
	elem, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	return strings.Trim(elem.Value.String(), " []")
}
