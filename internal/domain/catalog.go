package domain

import "fmt"

// Category groups vibes in the picker.
type Category string

const (
	CategoryPopular Category = "popular"
	CategoryFocus   Category = "focus"
	CategoryAmbient Category = "ambient"
	CategoryNature  Category = "nature"
)

// Categories lists picker tabs in display order. Popular shows everything.
var Categories = []Category{CategoryPopular, CategoryFocus, CategoryAmbient, CategoryNature}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func preset(id, name, videoID string, cat Category, desc string, theme VibeTheme) Vibe {
	return Vibe{
		ID:           id,
		Name:         name,
		Type:         VibePreset,
		VideoID:      videoID,
		ThumbnailURL: ThumbnailURL(videoID),
		Category:     cat,
		Description:  desc,
		Theme:        theme,
	}
}

var presetVibes = []Vibe{
	preset("lofi", "Lo-Fi Beats", "jfKfPfyJRdk", CategoryFocus,
		"Chill beats to help you focus and study",
		VibeTheme{Primary: "#4F46E5", Secondary: "#6366F1", Background: "#1E293B", Text: "#F8FAFC"}),
	preset("nature", "Nature Sounds", "eKFTSSKCzWA", CategoryNature,
		"Peaceful forest and river ambience",
		VibeTheme{Primary: "#10B981", Secondary: "#34D399", Background: "#064E3B", Text: "#ECFDF5"}),
	preset("jazz", "Coffee Shop Jazz", "VMAPTo7RVCo", CategoryFocus,
		"Smooth jazz with coffee shop ambience",
		VibeTheme{Primary: "#7C3AED", Secondary: "#8B5CF6", Background: "#2E1065", Text: "#F5F3FF"}),
	preset("ambient", "Ambient Space", "tNkZsRW7h2c", CategoryAmbient,
		"Ethereal space sounds for deep focus",
		VibeTheme{Primary: "#0EA5E9", Secondary: "#38BDF8", Background: "#075985", Text: "#E0F2FE"}),
	preset("fireplace", "Fireplace Sounds", "L_LUpnjgPso", CategoryAmbient,
		"Cozy crackling fireplace for relaxation",
		VibeTheme{Primary: "#F97316", Secondary: "#FB923C", Background: "#7C2D12", Text: "#FEF3C7"}),
	preset("rain", "Rain Sounds", "mPZkdNFkNps", CategoryNature,
		"Gentle rainfall for concentration",
		VibeTheme{Primary: "#3B82F6", Secondary: "#60A5FA", Background: "#1E3A8A", Text: "#EFF6FF"}),
}

// PresetVibes returns a copy of the built-in catalog.
func PresetVibes() []Vibe {
	out := make([]Vibe, len(presetVibes))
	copy(out, presetVibes)
	return out
}

// VibesInCategory filters the catalog. Popular returns every preset.
func VibesInCategory(c Category) []Vibe {
	if c == CategoryPopular || c == "" {
		return PresetVibes()
	}
	var out []Vibe
	for _, v := range presetVibes {
		if v.Category == c {
			out = append(out, v)
		}
	}
	return out
}

// FindPreset looks up a catalog entry by id.
func FindPreset(id string) (*Vibe, error) {
	for _, v := range presetVibes {
		if v.ID == id {
			c := v
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVibeNotFound, id)
}
