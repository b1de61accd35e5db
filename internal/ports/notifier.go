package ports

// Notifier plays the completion chime and shows desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Chime plays a short completion sound.
	Chime() error

	// Notify shows a desktop notification.
	Notify(title, message string) error
}
