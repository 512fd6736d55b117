package deck

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
)

// DecodeImageData accepts a data URI or bare base64 and returns the bytes.
func DecodeImageData(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		_, payload, ok := strings.Cut(data, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		data = payload
	}
	data = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, data)
	if data == "" {
		return nil, fmt.Errorf("empty image data")
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
	}
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	return decoded, nil
}

// imageExtension sniffs payload and checks that it decodes as a picture
// PowerPoint can show.
func imageExtension(payload []byte) (string, error) {
	var ext string
	switch http.DetectContentType(payload) {
	case "image/png":
		ext = "png"
	case "image/jpeg":
		ext = "jpeg"
	case "image/gif":
		ext = "gif"
	default:
		return "", fmt.Errorf("unsupported image type %q", http.DetectContentType(payload))
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(payload)); err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return ext, nil
}
