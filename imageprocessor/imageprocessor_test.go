package imageprocessor

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func writeImage(t *testing.T, path string, encode func(io.Writer, image.Image) error, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name   string
		encode func(io.Writer, image.Image) error
		format string
		w, h   int
	}{
		{"a.png", png.Encode, "png", 30, 20},
		{"b.bmp", bmp.Encode, "bmp", 12, 7},
		{"c.tif", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, "tiff", 5, 9},
	}
	for _, c := range cases {
		path := filepath.Join(dir, c.name)
		writeImage(t, path, c.encode, c.w, c.h)

		info, err := Probe(path)
		if err != nil {
			t.Fatalf("%s: probe failed: %v", c.name, err)
		}
		if info.Format != c.format || info.Width != c.w || info.Height != c.h {
			t.Errorf("%s: unexpected info %+v", c.name, info)
		}

		img, err := Decode(path)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", c.name, err)
		}
		if b := img.Bounds(); b.Dx() != c.w || b.Dy() != c.h {
			t.Errorf("%s: decoded bounds %v", c.name, b)
		}
	}
}

func TestProbe_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Probe(path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Probe(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetFileFormat(t *testing.T) {
	cases := map[string]FormatType{
		"a.JPG":       FormatJPEG,
		"b.jpeg":      FormatJPEG,
		"c.webp":      FormatWEBP,
		"d.TIFF":      FormatTIFF,
		"e.cr3":       FormatUnknown,
		"no-ext":      FormatUnknown,
		"dir.png/x":   FormatUnknown,
		"photo.gif":   FormatGIF,
		"scan.bmp":    FormatBMP,
		"shot.png":    FormatPNG,
		"archive.tif": FormatTIFF,
	}
	for path, want := range cases {
		if got := GetFileFormat(path); got != want {
			t.Errorf("GetFileFormat(%q) = %q, want %q", path, got, want)
		}
	}
	if IsSupported("x.heic") || !IsSupported("x.jpg") {
		t.Error("unexpected IsSupported result")
	}
}

func TestMetadataReader(t *testing.T) {
	if !ExiftoolAvailable() {
		t.Skip("exiftool not installed")
	}
	path := filepath.Join(t.TempDir(), "a.png")
	writeImage(t, path, png.Encode, 4, 4)

	r, err := NewMetadataReader()
	if err != nil {
		t.Fatalf("start exiftool: %v", err)
	}
	defer r.Close()

	md := r.Read(path)
	if _, ok := md[path]; !ok {
		t.Fatalf("no metadata entry for %s: %v", path, md)
	}
	if len(r.Read()) != 0 {
		t.Error("empty read must return no entries")
	}
}
