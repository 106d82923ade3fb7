package system

import (
	"context"
	"fmt"
	"strings"
)

// LocalIPv4 asks `hostname -I` for the host addresses and returns the first
// IPv4 one. The gallery URL shown on the preview is built from it.
func LocalIPv4(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, "hostname", "-I")
	if err != nil {
		return "", fmt.Errorf("hostname -I failed: %w: %s", err, strings.TrimSpace(stderr))
	}
	for _, field := range strings.Fields(stdout) {
		if strings.Count(field, ".") == 3 && !strings.Contains(field, ":") {
			return field, nil
		}
	}
	return "", fmt.Errorf("hostname -I: no ipv4 address in %q", strings.TrimSpace(stdout))
}
