//go:build !linux

package system

import "context"

// StartExitOnKey is unavailable off Linux; the caller falls back to its
// context for shutdown.
func StartExitOnKey(ctx context.Context, logger logger, onExit func()) {
	if logger != nil {
		logger.Infof("input", "exit key watching not supported on this platform")
	}
}
