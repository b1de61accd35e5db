package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidVideoURL is shown to the user when a pasted link has no usable video id.
var ErrInvalidVideoURL = errors.New("please enter a valid YouTube URL")

// ErrVibeNotFound is returned when a preset id is unknown.
var ErrVibeNotFound = errors.New("vibe not found")

// VibeType tells preset catalog entries from user supplied links.
type VibeType string

const (
	VibePreset VibeType = "preset"
	VibeCustom VibeType = "custom"
)

// VibeTheme is the palette a vibe applies to the interface.
type VibeTheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// DefaultVibeTheme is the indigo palette used by custom vibes.
var DefaultVibeTheme = VibeTheme{
	Primary:    "#4F46E5",
	Secondary:  "#6366F1",
	Background: "#1E293B",
	Text:       "#F8FAFC",
}

// Vibe is an ambient soundtrack backed by an external video.
type Vibe struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Type         VibeType  `json:"type" yaml:"type"`
	VideoID      string    `json:"videoId,omitempty" yaml:"video_id,omitempty"`
	URL          string    `json:"url,omitempty" yaml:"url,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl" yaml:"thumbnail_url"`
	Category     Category  `json:"category,omitempty" yaml:"category,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	Theme        VibeTheme `json:"theme" yaml:"theme"`
}

// Clone returns a copy so callers cannot mutate state through a shared pointer.
func (v *Vibe) Clone() *Vibe {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Equal compares two optional vibes by value.
func (v *Vibe) Equal(o *Vibe) bool {
	if v == nil || o == nil {
		return v == o
	}
	return *v == *o
}

// WatchURL returns a link the media player can open.
func (v *Vibe) WatchURL() string {
	if v.URL != "" {
		return v.URL
	}
	return "https://www.youtube.com/watch?v=" + v.VideoID
}

// videoIDPattern recognizes youtu.be/<id>, /v/<id>, /u/<x>/<id>, /embed/<id>, ?v=<id> and &v=<id>.
var videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|\?v=|&v=)([^#&?]*).*`)

const videoIDLength = 11

// ExtractVideoID pulls the 11 character video id out of a link.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil || len(m[2]) != videoIDLength {
		return "", ErrInvalidVideoURL
	}
	return m[2], nil
}

// ThumbnailURL returns the medium quality thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID)
}

// NewCustomVibe builds a vibe from a pasted link.
func NewCustomVibe(rawURL string, now time.Time) (*Vibe, error) {
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return &Vibe{
		ID:           customVibeID(now),
		Name:         "Custom YouTube",
		Type:         VibeCustom,
		VideoID:      id,
		URL:          rawURL,
		ThumbnailURL: ThumbnailURL(id),
		Category:     CategoryFocus,
		Description:  "Your custom YouTube video",
		Theme:        DefaultVibeTheme,
	}, nil
}
