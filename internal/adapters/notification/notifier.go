// Package notification provides the completion chime and desktop notifications.
package notification

import (
	"github.com/gen2brain/beeep"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Notifier plays the chime and shows desktop notifications through beeep.
type Notifier struct {
	sound bool

	beep   func() error
	notify func(title, message string) error
}

// New creates a notifier. When sound is false Chime is silent.
func New(sound bool) *Notifier {
	return &Notifier{
		sound: sound,
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

var _ ports.Notifier = (*Notifier)(nil)

// Chime plays the completion sound.
func (n *Notifier) Chime() error {
	if !n.sound {
		return nil
	}
	return n.beep()
}

// Notify displays a desktop notification.
func (n *Notifier) Notify(title, message string) error {
	return n.notify(title, message)
}
