package qr

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"sort"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/mikey/qr-guard/internal/core"
	"go.uber.org/zap"
)

// Decoder reads QR codes out of PNG, JPEG and GIF images
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder creates a new QR decoder
func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode returns the text of every QR code found in the image, in reading
// order (top to bottom, then left to right)
func (d *Decoder) Decode(r io.Reader) ([]string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	results, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, hints)
	if err != nil || len(results) == 0 {
		// The single-code reader copes with codes the multi detector misses
		result, singleErr := zxqrcode.NewQRCodeReader().Decode(bmp, hints)
		if singleErr != nil {
			return nil, decodeError(singleErr)
		}
		results = []*gozxing.Result{result}
	}

	sortReadingOrder(results)

	texts := make([]string, 0, len(results))
	for _, result := range results {
		texts = append(texts, result.GetText())
	}

	d.logger.Debug("Decoded QR codes",
		zap.String("format", format),
		zap.Int("codes", len(texts)),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	return texts, nil
}

// decodeError maps gozxing failures onto the core errors
func decodeError(err error) error {
	var notFound gozxing.NotFoundException
	if errors.As(err, &notFound) {
		return core.ErrNoCodeFound
	}

	var format gozxing.FormatException
	var checksum gozxing.ChecksumException
	if errors.As(err, &format) || errors.As(err, &checksum) {
		return fmt.Errorf("%w: %v", core.ErrUnreadableCode, err)
	}

	return fmt.Errorf("failed to decode QR code: %w", err)
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func resultBounds(result *gozxing.Result) bounds {
	b := bounds{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, p := range result.GetResultPoints() {
		b.minX = math.Min(b.minX, p.GetX())
		b.minY = math.Min(b.minY, p.GetY())
		b.maxX = math.Max(b.maxX, p.GetX())
		b.maxY = math.Max(b.maxY, p.GetY())
	}
	return b
}

// sortReadingOrder orders codes row by row. Codes whose vertical extents
// overlap are on the same row and are ordered left to right.
func sortReadingOrder(results []*gozxing.Result) {
	if len(results) < 2 {
		return
	}

	boxes := make(map[*gozxing.Result]bounds, len(results))
	for _, result := range results {
		boxes[result] = resultBounds(result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := boxes[results[i]], boxes[results[j]]
		if a.maxY < b.minY {
			return true
		}
		if b.maxY < a.minY {
			return false
		}
		return a.minX < b.minX
	})
}
