package photo

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func TestName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 123456789, time.UTC)
	if got, want := Name("photo", ts), "photo_20240102_150405_123.jpg"; got != want {
		t.Errorf("unexpected name: got %q, want %q", got, want)
	}
	if got, want := Name("composed_collage", ts.Truncate(time.Second)), "composed_collage_20240102_150405_000.jpg"; got != want {
		t.Errorf("unexpected name: got %q, want %q", got, want)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "photos", "composed")
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	p1, err := Save(dir, "photo", img, 95, ts)
	if err != nil {
		t.Fatalf("could not save: %v", err)
	}
	if want := filepath.Join(dir, "photo_20240102_150405_000.jpg"); p1 != want {
		t.Errorf("unexpected path: got %s, want %s", p1, want)
	}

	// A second save in the same millisecond does not overwrite the first.
	p2, err := Save(dir, "photo", img, 95, ts)
	if err != nil {
		t.Fatalf("could not save second photo: %v", err)
	}
	if want := filepath.Join(dir, "photo_20240102_150405_000_1.jpg"); p2 != want {
		t.Errorf("unexpected path: got %s, want %s", p2, want)
	}

	got, err := imaging.Open(p1)
	if err != nil {
		t.Fatalf("could not open saved photo: %v", err)
	}
	if got.Bounds().Dx() != 30 || got.Bounds().Dy() != 20 {
		t.Errorf("unexpected saved size: %v", got.Bounds())
	}
}

func TestSaveUnwritable(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	err := os.WriteFile(blocker, nil, 0o644)
	if err != nil {
		t.Fatalf("could not create blocking file: %v", err)
	}

	_, err = Save(filepath.Join(blocker, "photos"), "photo", image.NewRGBA(image.Rect(0, 0, 2, 2)), 95, time.Now())
	if !errors.Is(err, ErrPathUnwritable) {
		t.Errorf("expected ErrPathUnwritable, got %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 4000, 3000))
	th := Thumbnail(big, 400, 400)
	if b := th.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("unexpected thumbnail size: %v", b)
	}

	small := image.NewRGBA(image.Rect(0, 0, 40, 30))
	if Thumbnail(small, 400, 400) != image.Image(small) {
		t.Error("expected small image unchanged")
	}
}
