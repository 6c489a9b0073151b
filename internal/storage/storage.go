// Package storage stores uploaded meter and invoice photos.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxSize is the default limit for uploaded files.
const DefaultMaxSize int64 = 5 << 20

// Folders for the different kinds of uploads.
const (
	FolderReadings = "readings"
	FolderInvoices = "invoices"
)

// AllowedTypes are the content types accepted for uploads.
var AllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

var (
	ErrNoFile       = errors.New("the file is missing")
	ErrFileTooLarge = errors.New("the file is too large")
	ErrFileType     = errors.New("the file must be an image (JPEG, PNG, WebP) or a PDF")
)

// Store is a place where uploaded files are kept.
type Store interface {
	// Put writes the content of r to key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// URL returns the address under which key can be downloaded.
	URL(key string) string
}

// Upload validates an uploaded file, stores it in a folder of the store
// and returns its key.
func Upload(ctx context.Context, s Store, folder string, header *multipart.FileHeader, maxSize int64) (string, error) {
	if header == nil {
		return "", ErrNoFile
	}

	if header.Size > maxSize {
		return "", fmt.Errorf("%w, the limit is %d MiB", ErrFileTooLarge, maxSize>>20)
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}

	if !mimetype.EqualsAny(mtype.String(), AllowedTypes...) {
		return "", fmt.Errorf("%w, got %s", ErrFileType, mtype.String())
	}

	// Detection consumed the start of the file
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return "", err
	}

	key := ObjectKey(folder, header.Filename, time.Now())
	err = s.Put(ctx, key, f, header.Size, mtype.String())
	if err != nil {
		return "", fmt.Errorf("could not store %s: %w", key, err)
	}

	return key, nil
}

var unsafeCharacters = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectKey returns the key for a file uploaded at a time, in the format
// <folder>/<unix millis>_<sanitized name>.
func ObjectKey(folder, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%d_%s", strings.Trim(folder, "/"), at.UnixMilli(), sanitize(filename))
}

// sanitize removes accents and replaces everything but letters, digits,
// dots and dashes with underscores.
func sanitize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	return strings.ToLower(unsafeCharacters.ReplaceAllString(stripped, "_"))
}
