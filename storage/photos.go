// Package storage saves uploaded photos to the uploads directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const MaxPhotoSize = 5 * 1024 * 1024

var (
	ErrTooLarge    = errors.New("photo exceeds the 5MB limit")
	ErrNotAnImage  = errors.New("photo must be a JPEG, PNG or WebP image")
	unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// StoredPhoto is a photo written to disk. Ref is the path clients use to
// fetch it, relative to the server root ("uploads/<name>").
type StoredPhoto struct {
	Ref      string
	Filename string
	Content  []byte
}

type Photos struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewPhotos stores files in dir and hands out refs under the URL prefix
// the directory is served at.
func NewPhotos(dir, prefix string) (*Photos, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Photos{dir: dir, prefix: strings.Trim(prefix, "/"), now: time.Now}, nil
}

// Save checks the upload is an image within the size limit and writes it
// as "<unix-millis>-<random>-<original name>", so uploads never overwrite
// each other.
func (p *Photos) Save(fh *multipart.FileHeader) (*StoredPhoto, error) {
	if fh.Size > MaxPhotoSize {
		return nil, ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxPhotoSize {
		return nil, ErrTooLarge
	}
	if !mimetype.EqualsAny(mimetype.Detect(data).String(), allowedTypes...) {
		return nil, ErrNotAnImage
	}

	original := unsafeFilename.ReplaceAllString(filepath.Base(fh.Filename), "_")
	out, err := os.CreateTemp(p.dir, fmt.Sprintf("%d-*-%s", p.now().UnixMilli(), original))
	if err != nil {
		return nil, err
	}
	name := filepath.Base(out.Name())
	if _, err := out.Write(data); err != nil {
		out.Close()
		os.Remove(out.Name())
		return nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return nil, err
	}
	if err := os.Chmod(out.Name(), 0o644); err != nil {
		os.Remove(out.Name())
		return nil, err
	}
	return &StoredPhoto{Ref: path.Join(p.prefix, name), Filename: original, Content: data}, nil
}

// Remove deletes a photo previously returned by Save. A missing file is
// not an error.
func (p *Photos) Remove(ref string) error {
	err := os.Remove(filepath.Join(p.dir, path.Base(ref)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
