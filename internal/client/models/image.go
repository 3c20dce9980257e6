package models

import (
	"net/http"
	"os"
	"path/filepath"
)

// Image is an already-encoded picture attached to a new post.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LoadImage reads an image file from disk and sniffs its content type.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return Image{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
