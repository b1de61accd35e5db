package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
	"gopkg.in/yaml.v3"
)

// ExportFormat names an export encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatYAML ExportFormat = "yaml"
	FormatMD   ExportFormat = "md"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case FormatJSON, FormatCSV, FormatYAML, FormatMD:
		return ExportFormat(s), nil
	}
	return "", fmt.Errorf("unsupported format %q (use json, csv, yaml or md)", s)
}

// HistoryService handles interval history use cases.
type HistoryService struct {
	history ports.HistoryRepository
	now     func() time.Time
}

// NewHistoryService creates a new history service.
func NewHistoryService(history ports.HistoryRepository) *HistoryService {
	return &HistoryService{history: history, now: time.Now}
}

var _ ports.HistoryReader = (*HistoryService)(nil)

// TodayStats returns totals for the current day.
func (s *HistoryService) TodayStats(ctx context.Context) (*domain.DailyStats, error) {
	stats, err := s.history.GetDailyStats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return stats, nil
}

// Recent returns entries completed at or after since.
func (s *HistoryService) Recent(ctx context.Context, since time.Time) ([]*domain.HistoryEntry, error) {
	entries, err := s.history.FindRecent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return entries, nil
}

// Days returns per-day totals for the last n days, oldest first.
func (s *HistoryService) Days(ctx context.Context, n int) ([]domain.DailyStats, error) {
	if n <= 0 {
		return nil, nil
	}
	start := domain.StartOfDay(s.now()).AddDate(0, 0, -(n - 1))
	entries, err := s.Recent(ctx, start)
	if err != nil {
		return nil, err
	}

	days := make([]domain.DailyStats, n)
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i)
	}
	for _, e := range entries {
		day := domain.StartOfDay(e.CompletedAt)
		for i := range days {
			if days[i].Date.Equal(day) {
				days[i].Add(e)
				break
			}
		}
	}
	return days, nil
}

// Export writes the entries completed at or after since to w.
func (s *HistoryService) Export(ctx context.Context, w io.Writer, format ExportFormat, since time.Time) error {
	entries, err := s.Recent(ctx, since)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatMD:
		return writeMarkdown(w, entries, s.now())
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Clear deletes all history.
func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.history.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, entries []*domain.HistoryEntry) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "mode", "session", "duration_minutes", "postponed", "vibe_id", "git_branch", "git_commit", "completed_at"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.ID,
			string(e.Mode),
			strconv.Itoa(e.Session),
			strconv.FormatFloat(e.Duration.Minutes(), 'f', -1, 64),
			strconv.FormatBool(e.Postponed),
			e.VibeID,
			e.GitBranch,
			e.GitCommit,
			e.CompletedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeMarkdown(w io.Writer, entries []*domain.HistoryEntry, now time.Time) error {
	if _, err := fmt.Fprintf(w, "# Focus History\n\nGenerated: %s\n", now.Format("2006-01-02 15:04")); err != nil {
		return err
	}
	var day time.Time
	var totals domain.DailyStats
	flush := func() error {
		if day.IsZero() {
			return nil
		}
		_, err := fmt.Fprintf(w, "\nTotal: %d focus (%s), %d break (%s)\n",
			totals.FocusIntervals, totals.FocusTime, totals.BreakIntervals, totals.BreakTime)
		return err
	}

	for _, e := range entries {
		if d := domain.StartOfDay(e.CompletedAt); !d.Equal(day) {
			if err := flush(); err != nil {
				return err
			}
			day, totals = d, domain.DailyStats{Date: d}
			if _, err := fmt.Fprintf(w, "\n## %s\n\n", d.Format("2006-01-02")); err != nil {
				return err
			}
		}
		totals.Add(e)

		line := fmt.Sprintf("- %s %s #%d, %s", e.CompletedAt.Format("15:04"), e.Mode.Label(), e.Session, e.Duration)
		if e.Postponed {
			line += " (postponed)"
		}
		if e.VibeID != "" {
			line += ", vibe " + e.VibeID
		}
		if e.GitBranch != "" {
			line += fmt.Sprintf(", %s@%s", e.GitBranch, e.GitCommit)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return flush()
}
