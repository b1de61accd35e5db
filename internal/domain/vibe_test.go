package domain

import (
	"errors"
	"testing"
	"time"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?list=PL1&v=jfKfPfyJRdk", "jfKfPfyJRdk", false},
		{"https://www.youtube.com/embed/jfKfPfyJRdk", "jfKfPfyJRdk", false},
		{"https://www.youtube.com/v/jfKfPfyJRdk?version=3", "jfKfPfyJRdk", false},
		{"https://www.youtube.com/user/u/1/L_LUpnjgPso", "L_LUpnjgPso", false},
		{"https://youtu.be/short", "", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQextra", "", true},
		{"https://example.com/video", "", true},
		{"not a url", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVideoURL) {
					t.Errorf("ExtractVideoID(%q) error = %v, want ErrInvalidVideoURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) unexpected error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNewCustomVibe(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	v, err := NewCustomVibe("https://youtu.be/dQw4w9WgXcQ", now)
	if err != nil {
		t.Fatalf("NewCustomVibe() error = %v", err)
	}

	if v.ID != "custom-1700000000123" {
		t.Errorf("ID = %q", v.ID)
	}
	if v.Type != VibeCustom || v.Name != "Custom YouTube" || v.Description != "Your custom YouTube video" {
		t.Errorf("unexpected vibe metadata: %+v", v)
	}
	if v.Category != CategoryFocus {
		t.Errorf("Category = %q, want focus", v.Category)
	}
	if v.ThumbnailURL != "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg" {
		t.Errorf("ThumbnailURL = %q", v.ThumbnailURL)
	}
	if v.Theme != DefaultVibeTheme {
		t.Errorf("Theme = %+v, want default palette", v.Theme)
	}
	if v.WatchURL() != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("WatchURL() = %q", v.WatchURL())
	}

	if _, err := NewCustomVibe("https://youtu.be/nope", now); err == nil {
		t.Error("NewCustomVibe() should reject a link without an 11 character id")
	}
}

func TestCatalog(t *testing.T) {
	all := PresetVibes()
	if len(all) != 6 {
		t.Fatalf("len(PresetVibes()) = %d, want 6", len(all))
	}

	tests := []struct {
		category Category
		want     []string
	}{
		{CategoryPopular, []string{"lofi", "nature", "jazz", "ambient", "fireplace", "rain"}},
		{CategoryFocus, []string{"lofi", "jazz"}},
		{CategoryAmbient, []string{"ambient", "fireplace"}},
		{CategoryNature, []string{"nature", "rain"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := VibesInCategory(tt.category)
			if len(got) != len(tt.want) {
				t.Fatalf("VibesInCategory(%s) returned %d vibes, want %d", tt.category, len(got), len(tt.want))
			}
			for i, v := range got {
				if v.ID != tt.want[i] {
					t.Errorf("vibe %d = %s, want %s", i, v.ID, tt.want[i])
				}
			}
		})
	}

	rain, err := FindPreset("rain")
	if err != nil {
		t.Fatalf("FindPreset(rain) error = %v", err)
	}
	if rain.VideoID != "mPZkdNFkNps" || rain.WatchURL() != "https://www.youtube.com/watch?v=mPZkdNFkNps" {
		t.Errorf("unexpected rain vibe: %+v", rain)
	}
	rain.Name = "changed"
	if again, _ := FindPreset("rain"); again.Name != "Rain Sounds" {
		t.Error("FindPreset() must return a copy")
	}

	if _, err := FindPreset("dubstep"); !errors.Is(err, ErrVibeNotFound) {
		t.Errorf("FindPreset(dubstep) error = %v, want ErrVibeNotFound", err)
	}
}

func TestVibeEqual(t *testing.T) {
	a, _ := FindPreset("jazz")
	b, _ := FindPreset("jazz")
	var none *Vibe

	if !a.Equal(b) {
		t.Error("identical vibes should be equal")
	}
	if a.Equal(none) || none.Equal(a) {
		t.Error("nil and non-nil vibes should differ")
	}
	if !none.Equal(nil) {
		t.Error("two nil vibes should be equal")
	}
}
