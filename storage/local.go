// Package storage keeps uploaded post images on local disk and serves them by URL.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotImage is returned when the uploaded content is not a recognised image.
	ErrNotImage = errors.New("file is not an image")
	// ErrTooLarge is returned when the upload exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrEmptyFile is returned for zero byte uploads.
	ErrEmptyFile = errors.New("file is empty")
)

const maxNameRunes = 80

// StoredFile describes a file written by LocalStore.
type StoredFile struct {
	URL         string
	Path        string
	Size        int64
	ContentType string
}

// LocalStore writes uploads into a single directory exposed under a URL prefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}, nil
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string { return s.dir }

// URLPrefix returns the public prefix of stored file URLs.
func (s *LocalStore) URLPrefix() string { return s.urlPrefix }

// Save stores a multipart upload.
func (s *LocalStore) Save(fh *multipart.FileHeader) (StoredFile, error) {
	if fh == nil || fh.Size == 0 {
		return StoredFile{}, ErrEmptyFile
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return StoredFile{}, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, fh.Filename, fh.Size)
	}
	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()
	return s.SaveReader(fh.Filename, src)
}

// SaveReader stores content read from r under a generated name derived from original.
func (s *LocalStore) SaveReader(original string, r io.Reader) (StoredFile, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return StoredFile{}, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return StoredFile{}, ErrEmptyFile
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return StoredFile{}, fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
	}

	name := s.generateName(original)
	dst := filepath.Join(s.dir, name)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create %s: %w", dst, err)
	}

	body := io.MultiReader(bytes.NewReader(head), r)
	if s.maxBytes > 0 {
		body = &io.LimitedReader{R: body, N: s.maxBytes + 1}
	}
	written, err := io.Copy(out, body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return StoredFile{}, fmt.Errorf("write %s: %w", dst, err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		_ = os.Remove(dst)
		return StoredFile{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, original, s.maxBytes)
	}

	return StoredFile{
		URL:         path.Join(s.urlPrefix, name),
		Path:        dst,
		Size:        written,
		ContentType: contentType,
	}, nil
}

// Delete removes the file behind a stored URL. Missing files are not an error.
func (s *LocalStore) Delete(url string) error {
	p, ok := s.PathFor(url)
	if !ok {
		return fmt.Errorf("url %q is not served by this store", url)
	}
	return RemoveFile(p)
}

// PathFor maps a public URL back to its location on disk.
func (s *LocalStore) PathFor(url string) (string, bool) {
	prefix := s.urlPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// RemoveFile deletes a file, treating an already missing file as success.
func RemoveFile(p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// generateName returns <unix-millis>-<8 hex>-<sanitized original>.
func (s *LocalStore) generateName(original string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), random, SanitizeFilename(original))
}

// SanitizeFilename normalises an uploaded file name into a single safe path segment.
func SanitizeFilename(name string) string {
	name = norm.NFKC.String(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	var b strings.Builder
	count := 0
	for _, r := range name {
		if count >= maxNameRunes {
			break
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		default:
			continue
		}
		count++
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
