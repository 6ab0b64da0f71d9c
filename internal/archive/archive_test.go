package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

// readZip extracts the archive into a name -> content map.
func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open built archive: %v", err)
	}
	out := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %q: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %q: %v", f.Name, err)
		}
		out[f.Name] = string(b)
	}
	return out
}

// TestBuildRoundTrip verifies entries survive the archive intact.
func TestBuildRoundTrip(t *testing.T) {
	data, err := Build([]Entry{
		{Name: "a_opti.webp", Data: []byte("webp-bytes")},
		{Name: "b_opti.avif", Data: []byte("avif-bytes")},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := readZip(t, data)
	if len(got) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(got))
	}
	if got["a_opti.webp"] != "webp-bytes" {
		t.Errorf("a_opti.webp content = %q", got["a_opti.webp"])
	}
	if got["b_opti.avif"] != "avif-bytes" {
		t.Errorf("b_opti.avif content = %q", got["b_opti.avif"])
	}
}

// TestBuildDeduplicatesNames verifies two items reducing to the same
// base name yield two distinct entries, the second suffixed _(1).
func TestBuildDeduplicatesNames(t *testing.T) {
	data, err := Build([]Entry{
		{Name: "photo_opti.webp", Data: []byte("first")},
		{Name: "photo_opti.webp", Data: []byte("second")},
		{Name: "photo_opti.webp", Data: []byte("third")},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := readZip(t, data)
	if len(got) != 3 {
		t.Fatalf("archive has %d entries, want 3", len(got))
	}
	if got["photo_opti.webp"] != "first" {
		t.Errorf("photo_opti.webp = %q, want first", got["photo_opti.webp"])
	}
	if got["photo_opti_(1).webp"] != "second" {
		t.Errorf("photo_opti_(1).webp = %q, want second", got["photo_opti_(1).webp"])
	}
	if got["photo_opti_(2).webp"] != "third" {
		t.Errorf("photo_opti_(2).webp = %q, want third", got["photo_opti_(2).webp"])
	}
}

// TestBuildEmpty verifies an empty input still yields a readable,
// empty archive.
func TestBuildEmpty(t *testing.T) {
	data, err := Build(nil)
	if err != nil {
		t.Fatalf("Build(nil) failed: %v", err)
	}
	if got := readZip(t, data); len(got) != 0 {
		t.Errorf("empty build has %d entries, want 0", len(got))
	}
}
