package models

import "testing"

// TestParseFormat verifies case-insensitive parsing and the jpg alias.
func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "webp", input: "webp", want: FormatWebP},
		{name: "avif", input: "avif", want: FormatAVIF},
		{name: "jpeg", input: "jpeg", want: FormatJPEG},
		{name: "jpg alias", input: "jpg", want: FormatJPEG},
		{name: "png", input: "png", want: FormatPNG},
		{name: "uppercase", input: "WEBP", want: FormatWebP},
		{name: "surrounding spaces", input: "  avif ", want: FormatAVIF},

		{name: "empty", input: "", wantErr: true},
		{name: "gif not a target", input: "gif", wantErr: true},
		{name: "mime type not accepted", input: "image/webp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestExtensionForMIME verifies that download extensions follow the
// actual produced MIME type, with jpeg mapping to the conventional jpg.
func TestExtensionForMIME(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want string
	}{
		{name: "jpeg maps to jpg", mime: "image/jpeg", want: "jpg"},
		{name: "webp passes through", mime: "image/webp", want: "webp"},
		{name: "avif passes through", mime: "image/avif", want: "avif"},
		{name: "png passes through", mime: "image/png", want: "png"},
		{name: "uppercase mime", mime: "IMAGE/JPEG", want: "jpg"},
		{name: "unknown prefix", mime: "application/pdf", want: "bin"},
		{name: "empty", mime: "", want: "bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtensionForMIME(tt.mime); got != tt.want {
				t.Errorf("ExtensionForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
			}
		})
	}
}

// TestSettingsValidate covers format and quality bounds.
func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{name: "webp mid quality", s: Settings{Format: FormatWebP, Quality: 0.8}},
		{name: "quality upper bound", s: Settings{Format: FormatAVIF, Quality: 1}},
		{name: "tiny quality still valid", s: Settings{Format: FormatJPEG, Quality: 0.01}},

		{name: "zero quality", s: Settings{Format: FormatWebP, Quality: 0}, wantErr: true},
		{name: "quality above one", s: Settings{Format: FormatWebP, Quality: 1.1}, wantErr: true},
		{name: "negative quality", s: Settings{Format: FormatWebP, Quality: -0.5}, wantErr: true},
		{name: "unknown format", s: Settings{Format: "gif", Quality: 0.8}, wantErr: true},
		{name: "empty format", s: Settings{Quality: 0.8}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.s, err, tt.wantErr)
			}
		})
	}
}

// TestSettingsMerge verifies partial updates keep unset fields.
func TestSettingsMerge(t *testing.T) {
	base := Settings{Format: FormatWebP, Quality: 0.8}

	avif := FormatAVIF
	q := 0.5

	tests := []struct {
		name   string
		update SettingsUpdate
		want   Settings
	}{
		{name: "empty update keeps everything", update: SettingsUpdate{}, want: base},
		{name: "format only", update: SettingsUpdate{Format: &avif}, want: Settings{Format: FormatAVIF, Quality: 0.8}},
		{name: "quality only", update: SettingsUpdate{Quality: &q}, want: Settings{Format: FormatWebP, Quality: 0.5}},
		{name: "both", update: SettingsUpdate{Format: &avif, Quality: &q}, want: Settings{Format: FormatAVIF, Quality: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Merge(tt.update); got != tt.want {
				t.Errorf("Merge(%+v) = %+v, want %+v", tt.update, got, tt.want)
			}
		})
	}
}
