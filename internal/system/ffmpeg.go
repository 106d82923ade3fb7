package system

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolNotFound is returned when an external tool is not on PATH.
var ErrToolNotFound = errors.New("tool not found")

// ToolStatus is the outcome of probing an external binary.
type ToolStatus struct {
	Name    string
	Version string // first line of the version banner
	Err     error
}

func (s ToolStatus) OK() bool { return s.Err == nil }

// ProbeFFmpeg runs `<bin> -version` and reports whether the video tool is
// usable. Nothing is encoded.
func ProbeFFmpeg(ctx context.Context, r Runner, bin string) ToolStatus {
	if bin == "" {
		bin = "ffmpeg"
	}
	status := ToolStatus{Name: bin}
	stdout, stderr, err := r.Run(ctx, bin, "-version")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			status.Err = fmt.Errorf("%s: %w", bin, ErrToolNotFound)
			return status
		}
		msg := strings.TrimSpace(stderr)
		if msg != "" {
			status.Err = fmt.Errorf("%s -version: %w: %s", bin, err, msg)
		} else {
			status.Err = fmt.Errorf("%s -version: %w", bin, err)
		}
		return status
	}
	status.Version, _, _ = strings.Cut(strings.TrimSpace(stdout), "\n")
	return status
}
