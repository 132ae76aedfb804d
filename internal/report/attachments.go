package report

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrsinham/caseforge/internal/store"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/draw"

	// Raster decoders for the accepted scan formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// maxEmbedPixels bounds the longer image edge before embedding, so a large
// scan does not bloat the PDF. 900px prints at 150dpi across the 6in box.
const maxEmbedPixels = 900

// AttachmentBlock is the render outcome for one scan image record: either
// a decoded image or a placeholder reason. A degraded block never fails
// the surrounding export.
type AttachmentBlock struct {
	Scan   store.ScanImage
	Image  image.Image // nil when the block degraded to a placeholder
	Reason string      // diagnostic text for the placeholder, empty on success
}

// Degraded reports whether the block renders as a placeholder.
func (b AttachmentBlock) Degraded() bool { return b.Image == nil }

// LoadAttachments resolves each scan record to an AttachmentBlock, in the
// order supplied by the store (newest upload first). Failures are isolated
// per attachment: a missing or unreadable file yields a placeholder block,
// never an error.
func LoadAttachments(scans []store.ScanImage) []AttachmentBlock {
	blocks := make([]AttachmentBlock, 0, len(scans))
	for _, scan := range scans {
		block := AttachmentBlock{Scan: scan}

		if _, err := os.Stat(scan.FilePath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				block.Reason = fmt.Sprintf("file not found: %s", scan.FilePath)
			} else {
				block.Reason = fmt.Sprintf("file unreadable: %s", scan.FilePath)
			}
			blocks = append(blocks, block)
			continue
		}

		img, err := decodeScan(scan.FilePath)
		if err != nil {
			block.Reason = fmt.Sprintf("could not decode %s: %v", scan.FilePath, err)
			blocks = append(blocks, block)
			continue
		}

		block.Image = downscale(img, maxEmbedPixels)
		blocks = append(blocks, block)
	}
	return blocks
}

// decodeScan decodes a stored scan file. DICOM files are decoded through
// their pixel data; everything else goes through the registered raster
// decoders (JPEG, PNG, GIF, BMP, TIFF). Non-raster documents fail here and
// degrade to the placeholder path in the caller.
func decodeScan(path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm", ".dicom":
		return decodeDICOM(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// decodeDICOM renders the first pixel-data frame of a DICOM file.
func decodeDICOM(path string) (image.Image, error) {
	dataset, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("parse dicom: %w", err)
	}

	element, err := dataset.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("dicom has no pixel data: %w", err)
	}

	info, ok := element.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || len(info.Frames) == 0 {
		return nil, fmt.Errorf("dicom pixel data holds no frames")
	}

	img, err := info.Frames[0].GetImage()
	if err != nil {
		return nil, fmt.Errorf("render dicom frame: %w", err)
	}
	return img, nil
}

// downscale shrinks img so its longer edge is at most maxEdge pixels,
// preserving aspect ratio. Smaller images pass through untouched; the
// engine never upscales pixel data.
func downscale(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// fitWithin computes display dimensions for a w×h pixel image inside a
// boxW×boxH inch box, preserving aspect ratio. Fit-within, not fill: the
// image is uniformly scaled until one edge touches the box.
func fitWithin(w, h int, boxW, boxH float64) (outW, outH float64) {
	if w <= 0 || h <= 0 {
		return boxW, boxH
	}
	outW = boxW
	outH = boxW * float64(h) / float64(w)
	if outH > boxH {
		outH = boxH
		outW = boxH * float64(w) / float64(h)
	}
	return outW, outH
}
