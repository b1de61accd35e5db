package ports

import (
	"context"
)

// GitInfo is the repository context attached to finished intervals.
type GitInfo struct {
	Branch     string
	Commit     string
	Repository string
	Dirty      bool
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect finds the repository containing workingDir and reads its HEAD.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
