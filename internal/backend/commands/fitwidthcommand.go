package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/jo-hoe/ambitions/internal/backend/commandstructure"
	xdraw "golang.org/x/image/draw"
)

// FitWidthCommand downscales PNG images wider than MaxWidth, preserving the
// aspect ratio. Narrower images pass through untouched.
type FitWidthCommand struct {
	name     string
	maxWidth int
}

func NewFitWidthCommand(params map[string]any) (commandstructure.Command, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"maxWidth"}); err != nil {
		return nil, err
	}
	maxWidth := commandstructure.GetIntParam(params, "maxWidth", 0)
	if maxWidth <= 0 {
		return nil, fmt.Errorf("maxWidth must be positive, got %d", maxWidth)
	}
	return &FitWidthCommand{name: "FitWidthCommand", maxWidth: maxWidth}, nil
}

func (c *FitWidthCommand) Name() string {
	return c.name
}

func (c *FitWidthCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= c.maxWidth {
		return imageData, nil
	}

	targetWidth, targetHeight := fitDimensions(bounds.Dx(), bounds.Dy(), c.maxWidth)
	slog.Debug("FitWidthCommand: scaling image",
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"target_width", targetWidth,
		"target_height", targetHeight)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return encodePNG(dst)
}

func fitDimensions(width, height, maxWidth int) (int, int) {
	if width <= maxWidth {
		return width, height
	}
	scaledHeight := int(float64(height) * float64(maxWidth) / float64(width))
	return maxWidth, max(scaledHeight, 1)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("FitWidthCommand", NewFitWidthCommand); err != nil {
		panic(fmt.Sprintf("failed to register FitWidthCommand: %v", err))
	}
}
