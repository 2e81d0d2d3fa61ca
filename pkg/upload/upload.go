// Package upload accepts images attached to quick add requests.
//
// Accepted images are stored under a directory, then normalized: fitted into
// 800x600 (never enlarged) and re-encoded as JPEG.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
	_ "golang.org/x/image/webp"
)

const (
	// multipart field carrying images.
	FieldName = "images"

	MaxWidth        = 800
	MaxHeight       = 600
	JPEGQuality     = 85
	ProcessedMime   = "image/jpeg"
	storedPrefix    = "quickadd-"
	processedPrefix = "processed-"
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMimetypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Error is a rejection of uploaded files caused by the client.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrUnexpectedFile = &Error{Message: "Unexpected field name for file upload."}
	ErrNotAnImage     = &Error{Message: "Only image files (JPEG, PNG, GIF, WebP) are allowed!"}
)

type Uploader struct {
	dir         string
	maxFileSize int64
	maxFiles    int
	now         func() time.Time
	logger      *log.Logger
}

type Option func(*Uploader) *Uploader

func WithClock(now func() time.Time) Option {
	return func(u *Uploader) *Uploader {
		u.now = now
		return u
	}
}

// WithLogger sets a logger to report images which could not be normalized.
func WithLogger(logger *log.Logger) Option {
	return func(u *Uploader) *Uploader {
		u.logger = logger
		return u
	}
}

// New creates Uploader storing files into dir.
func New(dir string, maxFileSize int64, maxFiles int, options ...Option) *Uploader {
	u := &Uploader{
		dir:         dir,
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
		now:         time.Now,
		logger:      log.New("upload"),
	}
	for _, o := range options {
		u = o(u)
	}
	return u
}

func (u *Uploader) Dir() string {
	return u.dir
}

// Accept validates files in form, then stores and normalizes them.
//
// Nothing is stored unless every file is acceptable.
//
// # Returns
//
// - []domain.Image: descriptions of stored images, in the order of the form.
//
// - error: *Error when files are not acceptable. Other errors are caused by the server.
func (u *Uploader) Accept(form *multipart.Form) ([]domain.Image, error) {
	if form == nil {
		return []domain.Image{}, nil
	}

	for field, files := range form.File {
		if field != FieldName && 0 < len(files) {
			return nil, ErrUnexpectedFile
		}
	}

	files := form.File[FieldName]
	if u.maxFiles < len(files) {
		return nil, &Error{Message: fmt.Sprintf("Too many files. Maximum %d files allowed.", u.maxFiles)}
	}

	mimes := make([]string, 0, len(files))
	for _, fh := range files {
		if u.maxFileSize < fh.Size {
			return nil, &Error{Message: fmt.Sprintf(
				"File too large. Maximum size is %s per file.", humanizeSize(u.maxFileSize),
			)}
		}
		mime, err := sniff(fh)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] || !allowedMimetypes[mime] {
			return nil, ErrNotAnImage
		}
		mimes = append(mimes, mime)
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return nil, xe.Wrap(err)
	}

	images := make([]domain.Image, 0, len(files))
	for nth, fh := range files {
		img, err := u.store(fh, mimes[nth])
		if err != nil {
			u.Remove(images)
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// Remove deletes stored files of images.
//
// Files already missing are ignored. It tries every image, and returns joined errors.
func (u *Uploader) Remove(images []domain.Image) error {
	errs := []error{}
	for _, img := range images {
		// Filename is generated by us, but do not trust it blindly.
		name := filepath.Base(img.Filename)
		if err := os.Remove(filepath.Join(u.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (u *Uploader) store(fh *multipart.FileHeader, mime string) (domain.Image, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	stored := fmt.Sprintf(
		"%s%d-%s%s",
		storedPrefix, u.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:12], ext,
	)
	storedPath := filepath.Join(u.dir, stored)

	size, err := copyTo(fh, storedPath)
	if err != nil {
		os.Remove(storedPath)
		return domain.Image{}, xe.Wrap(err)
	}

	processed := processedPrefix + stored
	processedPath := filepath.Join(u.dir, processed)
	psize, err := normalize(storedPath, processedPath)
	if err != nil {
		// keep the original as it is.
		u.logger.Warnf("failed to process image %s (kept as uploaded): %v", stored, err)
		os.Remove(processedPath)
		return domain.Image{
			Filename:     stored,
			OriginalName: fh.Filename,
			Path:         filepath.ToSlash(storedPath),
			Size:         size,
			Mimetype:     mime,
		}, nil
	}
	if err := os.Remove(storedPath); err != nil {
		u.logger.Warnf("failed to remove original image %s: %v", stored, err)
	}

	return domain.Image{
		Filename:     processed,
		OriginalName: fh.Filename,
		Path:         filepath.ToSlash(processedPath),
		Size:         psize,
		Mimetype:     ProcessedMime,
	}, nil
}

// detected MIME type of the file, or declared one when content says nothing.
func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if mt.Is("application/octet-stream") {
		return strings.ToLower(fh.Header.Get("Content-Type")), nil
	}
	return mt.String(), nil
}

func copyTo(fh *multipart.FileHeader, dest string) (int64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// normalize fits the image at src into MaxWidth x MaxHeight and writes it to dest as JPEG.
//
// It returns the size of dest.
func normalize(src, dest string) (int64, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return 0, err
	}
	fitted := imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	if err := imaging.Encode(out, fitted, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	stat, err := os.Stat(dest)
	if err != nil {
		return 0, err
	}
	return stat.Size(), nil
}

func humanizeSize(n int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)
	switch {
	case n%mib == 0:
		return fmt.Sprintf("%dMB", n/mib)
	case n%kib == 0:
		return fmt.Sprintf("%dKB", n/kib)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
