package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	profileImageDir   = "profile-images"
	profileImageWidth = 512
)

// ImageStore keeps uploaded profile pictures and returns their public URL.
type ImageStore interface {
	SaveProfileImage(ctx context.Context, key string, src io.Reader) (string, error)
}

// LocalImageStore writes resized JPEGs under dir, served back from baseURL.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalImageStore) SaveProfileImage(ctx context.Context, key string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", &ValidationError{Fields: map[string]string{"image": "unsupported image format"}}
	}

	if img.Bounds().Dx() > profileImageWidth {
		img = imaging.Resize(img, profileImageWidth, 0, imaging.Lanczos)
	}

	dir := filepath.Join(s.dir, profileImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	name := key + ".jpg"
	if err := imaging.Save(img, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return s.baseURL + "/uploads/" + profileImageDir + "/" + name, nil
}
