package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newStore(t *testing.T, maxBytes int64) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), "/uploads/", maxBytes)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s
}

func TestSaveReaderNamesAndWrites(t *testing.T) {
	s := newStore(t, 1<<20)
	sf, err := s.SaveReader("my photo.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(sf.URL, "/uploads/1700000000123-") || !strings.HasSuffix(sf.URL, "-my_photo.png") {
		t.Fatalf("unexpected url %s", sf.URL)
	}
	parts := strings.SplitN(strings.TrimPrefix(sf.URL, "/uploads/"), "-", 3)
	if len(parts) != 3 || len(parts[1]) != 8 {
		t.Fatalf("expected 8 char random segment in %s", sf.URL)
	}
	if sf.ContentType != "image/png" || sf.Size != int64(len(pngBytes)) {
		t.Fatalf("unexpected metadata %+v", sf)
	}
	got, err := os.ReadFile(sf.Path)
	if err != nil || !bytes.Equal(got, pngBytes) {
		t.Fatalf("file content mismatch: %v", err)
	}
	if p, ok := s.PathFor(sf.URL); !ok || p != sf.Path {
		t.Fatalf("PathFor(%s) = %s, %v", sf.URL, p, ok)
	}
}

func TestSaveReaderRejects(t *testing.T) {
	s := newStore(t, 64)

	if _, err := s.SaveReader("a.txt", strings.NewReader("hello world")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if _, err := s.SaveReader("empty.png", bytes.NewReader(nil)); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	big := append(append([]byte{}, pngBytes...), make([]byte, 100)...)
	if _, err := s.SaveReader("big.png", bytes.NewReader(big)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not leave files, found %d", len(entries))
	}
}

func TestPathForRejectsForeignAndTraversal(t *testing.T) {
	s := newStore(t, 0)
	for _, u := range []string{
		"https://cdn.example.com/a.png",
		"/uploads/",
		"/uploads/../secret",
		"/uploads/a/b.png",
		"/static/a.png",
	} {
		if p, ok := s.PathFor(u); ok {
			t.Fatalf("PathFor(%q) should be rejected, got %s", u, p)
		}
	}
}

func TestDeleteMissingFileIsNotAnError(t *testing.T) {
	s := newStore(t, 0)
	if err := s.Delete("/uploads/never-written.png"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := s.Delete("https://cdn.example.com/a.png"); err == nil {
		t.Fatalf("foreign url should error")
	}

	p := filepath.Join(s.Dir(), "x.png")
	_ = os.WriteFile(p, pngBytes, 0o644)
	if err := s.Delete("/uploads/x.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("file still present")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo one.png":       "photo_one.png",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\pic.jpg`: "pic.jpg",
		"ｆｕｌｌｗｉｄｔｈ.png":       "fullwidth.png",
		"사진 1.jpg":            "사진_1.jpg",
		"<script>.png":        "script.png",
		"...":                 "file",
		"":                    "file",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
