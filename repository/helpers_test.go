package repository

import (
	"bytes"
	"context"
	"mime/multipart"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/cppla/mzportal/config"
	"github.com/cppla/mzportal/models"
	"github.com/cppla/mzportal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase("sqlite", filepath.Join(t.TempDir(), "test.db"), "silent")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Migrate(db, &models.User{}, &models.Post{}, &models.Banner{}, &models.Attachment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads", 1<<20)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return store
}

type upload struct {
	name string
	body []byte
}

func png(name string) upload {
	return upload{name: name, body: append(append([]byte{}, pngHeader...), []byte(name)...)}
}

// fileHeaders builds multipart headers the way gin hands them to controllers.
func fileHeaders(t *testing.T, uploads ...upload) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		fw, err := w.CreateFormFile("file", u.name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := fw.Write(u.body); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"]
}

func mustSignup(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u, err := NewUserRepository(db).Signup(context.Background(), username, "pw-"+username)
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	return u
}
