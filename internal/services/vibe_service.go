package services

import (
	"fmt"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// VibeService handles vibe selection use cases.
type VibeService struct {
	ctrl ports.TimerController
	now  func() time.Time
}

// NewVibeService creates a new vibe service.
func NewVibeService(ctrl ports.TimerController) *VibeService {
	return &VibeService{ctrl: ctrl, now: time.Now}
}

// List returns the presets in category. An empty category means popular.
func (s *VibeService) List(category string) ([]domain.Vibe, error) {
	if category == "" {
		return domain.PresetVibes(), nil
	}
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return domain.VibesInCategory(c), nil
}

// Search does a fuzzy search over preset names, descriptions and
// categories, best match first. An empty query lists everything.
func (s *VibeService) Search(query string) []domain.Vibe {
	presets := domain.PresetVibes()
	if query == "" {
		return presets
	}

	haystack := make([]string, len(presets))
	for i, v := range presets {
		haystack[i] = v.Name + " " + v.Description + " " + string(v.Category)
	}

	var result []domain.Vibe
	for _, match := range fuzzy.Find(query, haystack) {
		result = append(result, presets[match.Index])
	}
	return result
}

// Select makes the preset with id the current vibe.
func (s *VibeService) Select(id string) (*domain.Vibe, error) {
	vibe, err := domain.FindPreset(id)
	if err != nil {
		return nil, fmt.Errorf("vibe %q: %w", id, err)
	}
	s.ctrl.Dispatch(domain.SetVibe(vibe))
	return vibe, nil
}

// SelectCustom makes a YouTube link the current vibe.
func (s *VibeService) SelectCustom(rawURL string) (*domain.Vibe, error) {
	vibe, err := domain.NewCustomVibe(rawURL, s.now())
	if err != nil {
		return nil, err
	}
	s.ctrl.Dispatch(domain.SetVibe(vibe))
	return vibe, nil
}

// Clear removes the current vibe.
func (s *VibeService) Clear() {
	s.ctrl.Dispatch(domain.SetVibe(nil))
}

// Current returns the current vibe or nil.
func (s *VibeService) Current() *domain.Vibe {
	return s.ctrl.State().CurrentVibe
}
