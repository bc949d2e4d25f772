package sessions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageMIMEs = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IsImagePath reports whether the file extension is a supported image
// type.
func IsImagePath(path string) bool {
	_, ok := imageMIMEs[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadImageFile loads an image file into an ImageRef for attachment.
func ReadImageFile(path string) (ImageRef, error) {
	mime, ok := imageMIMEs[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return ImageRef{}, fmt.Errorf("unsupported image type: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageRef{}, fmt.Errorf("read image: %w", err)
	}
	return ImageRef{MIME: mime, Data: data}, nil
}

// SaveTemp writes inline image bytes to a temp file so a terminal
// client has something to point the user at. Returns the file path.
func (r ImageRef) SaveTemp(prefix string) (string, error) {
	ext := ".png"
	if r.MIME == "image/jpeg" {
		ext = ".jpg"
	}
	f, err := os.CreateTemp("", prefix+"-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(r.Data); err != nil {
		return "", err
	}
	return f.Name(), nil
}
