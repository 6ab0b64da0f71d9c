package models

import "testing"

// TestImageOutputFilename verifies that the download name is derived
// from the original stem plus the actual output MIME type. In
// particular, a requested AVIF that actually produced JPEG (encoder
// fallback) must download as .jpg, not .avif.
func TestImageOutputFilename(t *testing.T) {
	tests := []struct {
		name       string
		original   string
		settings   Settings
		outputMIME string
		want       string
	}{
		{
			name:       "webp output",
			original:   "holiday.png",
			settings:   Settings{Format: FormatWebP, Quality: 0.8},
			outputMIME: "image/webp",
			want:       "holiday_opti.webp",
		},
		{
			name:       "jpeg output uses jpg",
			original:   "photo.png",
			settings:   Settings{Format: FormatJPEG, Quality: 0.8},
			outputMIME: "image/jpeg",
			want:       "photo_opti.jpg",
		},
		{
			name:       "avif requested but jpeg produced",
			original:   "scan.png",
			settings:   Settings{Format: FormatAVIF, Quality: 0.8},
			outputMIME: "image/jpeg",
			want:       "scan_opti.jpg",
		},
		{
			name:       "multiple dots keep inner ones",
			original:   "report.v2.final.jpeg",
			settings:   Settings{Format: FormatWebP, Quality: 0.8},
			outputMIME: "image/webp",
			want:       "report.v2.final_opti.webp",
		},
		{
			name:       "no extension on original",
			original:   "snapshot",
			settings:   Settings{Format: FormatWebP, Quality: 0.8},
			outputMIME: "image/webp",
			want:       "snapshot_opti.webp",
		},
		{
			name:     "no output yet falls back to requested format",
			original: "pending.png",
			settings: Settings{Format: FormatAVIF, Quality: 0.8},
			want:     "pending_opti.avif",
		},
		{
			name:       "empty stem",
			original:   ".png",
			settings:   Settings{Format: FormatWebP, Quality: 0.8},
			outputMIME: "image/webp",
			want:       "image_opti.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{
				OriginalName: tt.original,
				Settings:     tt.settings,
				OutputMIME:   tt.outputMIME,
			}
			if got := img.OutputFilename(); got != tt.want {
				t.Errorf("OutputFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestImageHasOutput checks the completed/output invariant helper.
func TestImageHasOutput(t *testing.T) {
	tests := []struct {
		name string
		img  Image
		want bool
	}{
		{
			name: "completed with output",
			img:  Image{Status: StatusCompleted, OutputMIME: "image/webp", OutputSize: 1234},
			want: true,
		},
		{name: "idle", img: Image{Status: StatusIdle}, want: false},
		{name: "converting", img: Image{Status: StatusConverting}, want: false},
		{name: "error", img: Image{Status: StatusError}, want: false},
		{
			name: "completed without mime is broken",
			img:  Image{Status: StatusCompleted, OutputSize: 10},
			want: false,
		},
		{
			name: "completed with zero size is broken",
			img:  Image{Status: StatusCompleted, OutputMIME: "image/webp"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.img.HasOutput(); got != tt.want {
				t.Errorf("HasOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestImageSavingsPercent verifies the size reduction calculation.
func TestImageSavingsPercent(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		output   int64
		status   Status
		want     float64
	}{
		{name: "halved", original: 1000, output: 500, status: StatusCompleted, want: 50},
		{name: "no reduction", original: 1000, output: 1000, status: StatusCompleted, want: 0},
		{name: "output grew", original: 1000, output: 1500, status: StatusCompleted, want: 0},
		{name: "not completed", original: 1000, output: 500, status: StatusConverting, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{
				Status:       tt.status,
				OriginalSize: tt.original,
				OutputSize:   tt.output,
				OutputMIME:   "image/webp",
			}
			if got := img.SavingsPercent(); got != tt.want {
				t.Errorf("SavingsPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestImageClone verifies the snapshot is independent of the source,
// including the alt text pointer.
func TestImageClone(t *testing.T) {
	alt := "a red bicycle leaning against a wall"
	src := &Image{OriginalName: "bike.jpg", AltText: &alt}

	cp := src.Clone()
	if cp == src {
		t.Fatal("Clone() returned the same pointer")
	}
	if cp.AltText == src.AltText {
		t.Fatal("Clone() shares the alt text pointer")
	}
	*cp.AltText = "changed"
	if *src.AltText != alt {
		t.Errorf("mutating the clone changed the source alt text to %q", *src.AltText)
	}
}
