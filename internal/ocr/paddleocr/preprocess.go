package paddleocr

import (
	"image"

	"golang.org/x/image/draw"
)

// detMean/detStd are PaddleOCR's standard ImageNet-derived normalization
// constants for the detection and classification models, applied per
// RGB channel.
var detMean = [3]float32{0.485, 0.456, 0.406}
var detStd = [3]float32{0.229, 0.224, 0.225}

// resizeForDetection scales img so its longer side is at most maxSideLen,
// then rounds both dimensions up to the nearest multiple of 32 (the
// detector's stride), padding with black. Returns the resized+padded image
// along with the scale factors needed to map detected boxes back to the
// original image.
func resizeForDetection(img image.Image, maxSideLen uint32) (*image.RGBA, float64, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	ratio := 1.0
	longSide := w
	if h > longSide {
		longSide = h
	}
	if longSide > int(maxSideLen) {
		ratio = float64(maxSideLen) / float64(longSide)
	}

	resizedW := roundUpToMultiple(int(float64(w)*ratio), 32)
	resizedH := roundUpToMultiple(int(float64(h)*ratio), 32)
	if resizedW < 32 {
		resizedW = 32
	}
	if resizedH < 32 {
		resizedH = 32
	}

	dst := image.NewRGBA(image.Rect(0, 0, resizedW, resizedH))
	draw.NearestNeighbor.Scale(dst, image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)), img, bounds, draw.Over, nil)

	scaleX := float64(w) / float64(int(float64(w)*ratio))
	scaleY := float64(h) / float64(int(float64(h)*ratio))
	return dst, scaleX, scaleY
}

func roundUpToMultiple(v, multiple int) int {
	if v%multiple == 0 {
		return v
	}
	return (v/multiple + 1) * multiple
}

// toCHWTensor normalizes img's RGB channels against mean/std and lays them
// out as NCHW float32 data (batch size 1), the layout every PaddleOCR ONNX
// graph expects.
func toCHWTensor(img *image.RGBA, mean, std [3]float32) ([]float32, []int64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]float32, 3*w*h)
	plane := w * h

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*w + x
			data[0*plane+idx] = (float32(r>>8)/255.0 - mean[0]) / std[0]
			data[1*plane+idx] = (float32(g>>8)/255.0 - mean[1]) / std[1]
			data[2*plane+idx] = (float32(b>>8)/255.0 - mean[2]) / std[2]
		}
	}
	return data, []int64{1, 3, int64(h), int64(w)}
}

// cropRegion extracts the axis-aligned bounding box of a detected text
// region (already expanded by unclip) from the original (unscaled) image.
func cropRegion(img image.Image, box boxRegion) *image.RGBA {
	b := img.Bounds()
	minX := clampInt(box.minX, b.Min.X, b.Max.X)
	minY := clampInt(box.minY, b.Min.Y, b.Max.Y)
	maxX := clampInt(box.maxX, b.Min.X, b.Max.X)
	maxY := clampInt(box.maxY, b.Min.Y, b.Max.Y)
	if maxX <= minX || maxY <= minY {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	out := image.NewRGBA(image.Rect(0, 0, maxX-minX, maxY-minY))
	draw.Draw(out, out.Bounds(), img, image.Pt(minX, minY), draw.Src)
	return out
}

// resizeForRecognition scales a cropped text-line image to the recognizer's
// fixed input height (48px), preserving aspect ratio, the way PaddleOCR's
// CRNN-style recognizer expects.
func resizeForRecognition(img *image.RGBA, targetHeight int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if h == 0 {
		h = 1
	}
	targetWidth := int(float64(w) * float64(targetHeight) / float64(h))
	if targetWidth < 1 {
		targetWidth = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
