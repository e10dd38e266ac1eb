//go:build !windows

package fileversion

import (
	"context"
	"os/exec"
)

func readVersion(ctx context.Context, path string, probeArgs []string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(cmdCtx, path, probeArgs...).Output()
	if err != nil {
		return "", err
	}

	return ExtractVersion(string(output))
}
