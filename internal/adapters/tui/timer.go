package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/focus-cli/internal/domain"
)

// Run starts the interface and blocks until the user quits or ctx ends.
// The subscription it opens on the controller is closed on return.
func Run(ctx context.Context, opts Options, inline bool) error {
	updates, unsubscribe := opts.Controller.Subscribe()
	defer unsubscribe()
	opts.Updates = updates

	if opts.Snow != nil {
		defer opts.Snow.Stop()
	}

	var (
		model       tea.Model
		programOpts []tea.ProgramOption
	)
	if inline {
		model = NewInlineModel(ctx, opts)
	} else {
		model = NewModel(ctx, opts)
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, programOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()
	cancel()
	wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// ShowStatus prints the state without starting interactive mode.
func ShowStatus(w io.Writer, s domain.AppState) {
	t := s.Timer
	fmt.Fprintf(w, "%s · session %d of %d\n", t.Mode.Label(), t.CurrentSession, t.TotalSessions)
	fmt.Fprintf(w, "   Status: %s\n", phaseLabel(t))
	fmt.Fprintf(w, "   Remaining: %s (%s)\n", domain.FormatClock(t.TimeRemaining), domain.FormatSpoken(t.TimeRemaining))
	fmt.Fprintf(w, "   Progress: %.0f%%\n", t.SessionProgress)
	fmt.Fprintf(w, "   Plan: %s\n", planSummary(s))

	if v := s.CurrentVibe; v != nil {
		fmt.Fprintf(w, "\n♪ Vibe: %s (%s)\n", v.Name, v.WatchURL())
	}
	fmt.Fprintf(w, "\n%s\n", settingsLine(s.AppSettings))
}

// ShowError displays an error message.
func ShowError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
