package commands

import (
	"encoding/base64"
	"fmt"

	"github.com/jo-hoe/ambitions/internal/backend/commandstructure"
)

// UploadPipeline returns the command configuration applied to uploaded images.
func UploadPipeline(maxWidth int) []commandstructure.CommandConfig {
	return []commandstructure.CommandConfig{
		{Name: "PngConverterCommand", Params: map[string]any{}},
		{Name: "FitWidthCommand", Params: map[string]any{"maxWidth": maxWidth}},
	}
}

// ProcessUpload normalises an uploaded image and embeds it as a PNG data URL.
func ProcessUpload(imageData []byte, maxWidth int) (string, error) {
	processed, err := commandstructure.ExecuteCommands(imageData, UploadPipeline(maxWidth))
	if err != nil {
		return "", fmt.Errorf("failed to process upload: %w", err)
	}
	return PNGDataURL(processed), nil
}

func PNGDataURL(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}
