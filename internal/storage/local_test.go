package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"delivery-manager/internal/domain"
)

func TestSaveImage(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "", 1)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}

	t.Run("accepted upload lands on disk", func(t *testing.T) {
		path, err := store.SaveImage("o1", "photo.JPG", "image/jpeg", strings.NewReader("fake-jpeg-bytes"), 15)
		if err != nil {
			t.Fatalf("SaveImage() error: %v", err)
		}
		if !strings.HasPrefix(path, "/uploads/") || !strings.HasSuffix(path, ".jpg") {
			t.Errorf("path = %q", path)
		}
		data, err := os.ReadFile(filepath.Join(store.dir, filepath.Base(path)))
		if err != nil {
			t.Fatalf("read stored file: %v", err)
		}
		if string(data) != "fake-jpeg-bytes" {
			t.Errorf("stored bytes = %q", data)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := store.SaveImage("o1", "archive.zip", "application/zip", strings.NewReader("x"), 1)
		if !errors.Is(err, domain.ErrUnsupportedImage) {
			t.Fatalf("err = %v, want ErrUnsupportedImage", err)
		}
	})

	t.Run("extension ok but mime not", func(t *testing.T) {
		_, err := store.SaveImage("o1", "fake.png", "text/html", strings.NewReader("x"), 1)
		if !errors.Is(err, domain.ErrUnsupportedImage) {
			t.Fatalf("err = %v, want ErrUnsupportedImage", err)
		}
	})

	t.Run("declared size over the cap", func(t *testing.T) {
		_, err := store.SaveImage("o1", "big.png", "image/png", strings.NewReader("x"), store.MaxBytes()+1)
		if !errors.Is(err, domain.ErrImageTooLarge) {
			t.Fatalf("err = %v, want ErrImageTooLarge", err)
		}
	})
}

func TestSaveImage_StreamLargerThanDeclared(t *testing.T) {
	// 1 MB cap, header lies about the size, the copy guard must still catch it.
	store, err := NewLocalStore(t.TempDir(), "", 1)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	big := strings.NewReader(strings.Repeat("a", int(store.MaxBytes())+10))
	_, err = store.SaveImage("o1", "sneaky.png", "image/png", big, 10)
	if !errors.Is(err, domain.ErrImageTooLarge) {
		t.Fatalf("err = %v, want ErrImageTooLarge", err)
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected upload left %d files behind", len(entries))
	}
}

func TestSaveImage_BaseURLPrefix(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "https://cdn.example.com/", 1)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	path, err := store.SaveImage("o1", "p.png", "image/png", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("SaveImage() error: %v", err)
	}
	if !strings.HasPrefix(path, "https://cdn.example.com/uploads/") {
		t.Errorf("path = %q", path)
	}
}
