package tileset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilemap/tilemap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedContent is returned for data URLs that are not base64 encoded.
var ErrUnsupportedContent = errors.New("tileset: content is not a base64 data URL or blob")

// Decode turns a tile set's stored content into an image. content is either
// a "data:<mime>;base64,<payload>" URL or a bare base64 blob.
func Decode(content string) (image.Image, error) {
	payload := content
	if strings.HasPrefix(content, "data:") {
		header, data, ok := strings.Cut(content, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrUnsupportedContent
		}
		payload = data
	}
	raw, err := decodeBase64(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedContent, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("tileset: decode image: %w", err)
	}
	return img, nil
}

func decodeBase64(s string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// EncodeDataURL encodes img as a PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("tileset: encode png: %w", err)
	}
	return DataURL("image/png", buf.Bytes()), nil
}

// DataURL wraps raw bytes in a base64 data URL.
func DataURL(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// LoadFile reads an image file into a tile set named after the file.
func LoadFile(path string) (tilemap.TileSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tilemap.TileSet{}, fmt.Errorf("tileset: load %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return tilemap.TileSet{Name: filepath.Base(path), Content: DataURL(mimeType, raw)}, nil
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// IsImageFile reports whether path has an extension Decode understands.
func IsImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}
