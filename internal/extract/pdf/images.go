package pdf

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

// extractImages pulls every embedded image out of path via pdfcpu's image
// extraction API, the same api.ExtractImagesFile call the pack's other PDF
// tooling uses, into a temp directory, then reads each file back. pdfcpu
// doesn't report which page an image came from, so PageNumber is left
// unset; downstream OCR attaches to the image directly rather than a page.
func extractImages(path string) ([]model.ExtractedImage, error) {
	tmpDir, err := os.MkdirTemp("", "kreuzbergo-pdf-img-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractImagesFile(path, tmpDir, nil, nil); err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(tmpDir, "*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var images []model.ExtractedImage
	for i, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		images = append(images, model.ExtractedImage{
			Data:       data,
			Format:     imageFormatFromExt(f),
			ImageIndex: i,
		})
	}
	return images, nil
}

func imageFormatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}
