package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/app-updater/internal/logger"
)

// DefaultExecutableMode is applied to executables swapped in by Replace.
const DefaultExecutableMode os.FileMode = 0o755

var (
	// ErrExtractionFailed is returned when the archive tool is missing or fails.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrReplaceFailed is returned when the executable cannot be swapped.
	ErrReplaceFailed = errors.New("replace failed")
)

// ExtractArgs builds the "extract with full paths, overwrite without prompting" arguments.
func ExtractArgs(archivePath string) []string {
	return []string{"x", "-y", archivePath}
}

// Extract runs tool on archivePath with workingDir as the subprocess directory.
// The updater's own working directory is left untouched.
func Extract(ctx context.Context, tool, archivePath, workingDir string) error {
	toolPath, err := exec.LookPath(tool)
	if err != nil {
		return fmt.Errorf("archive tool %q: %w: %w", tool, ErrExtractionFailed, err)
	}

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return fmt.Errorf("archive path %q: %w: %w", archivePath, ErrExtractionFailed, err)
	}

	cmd := exec.CommandContext(ctx, toolPath, ExtractArgs(absArchive)...)
	cmd.Dir = workingDir

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.DebugKV(ctx, "Running archive tool", "tool", toolPath, "args", cmd.Args[1:], "dir", workingDir)

	if err = cmd.Run(); err != nil {
		return fmt.Errorf("%s in %s: %w: %w: %s",
			filepath.Base(toolPath), workingDir, ErrExtractionFailed, err, strings.TrimSpace(output.String()))
	}

	return nil
}

// Replace swaps targetPath for the executable at sourcePath.
func Replace(ctx context.Context, sourcePath, targetPath string) error {
	source, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return fmt.Errorf("open %s: %w: %w", sourcePath, ErrReplaceFailed, err)
	}

	defer func() {
		_ = source.Close()
	}()

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: DefaultExecutableMode,
	}

	if err = goupdate.Apply(source, options); err != nil {
		return fmt.Errorf("apply %s: %w: %w", targetPath, ErrReplaceFailed, err)
	}

	oldFileName := filepath.Join(filepath.Dir(targetPath), "."+filepath.Base(targetPath)+".old")
	if _, err = os.Stat(oldFileName); err == nil {
		if err = os.Remove(oldFileName); err != nil {
			logger.Warnf(ctx, "Could not remove %s: %v", oldFileName, err)
		}
	}

	return nil
}
