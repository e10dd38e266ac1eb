package fileversion

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// probeTimeout bounds the --version run on platforms without version resources.
const probeTimeout = 10 * time.Second

// ErrVersionUnavailable is returned when no version can be read from the executable.
var ErrVersionUnavailable = errors.New("installed version unavailable")

// dottedVersion finds the first a.b.c (optionally .d) token in free text.
var dottedVersion = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:\.\d+)?`)

// Reader reads installed versions.
type Reader struct {
	// probeArgs are passed to the executable where it is run to learn its version.
	probeArgs []string
}

// NewReader returns a Reader that probes with --version.
func NewReader() *Reader {
	return &Reader{
		probeArgs: []string{"--version"},
	}
}

// Read returns the dotted version string of the executable at path.
func (r *Reader) Read(ctx context.Context, path string) (string, error) {
	version, err := readVersion(ctx, path, r.probeArgs)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", path, ErrVersionUnavailable, err)
	}

	return version, nil
}

// ExtractVersion returns the first dotted version found in output.
func ExtractVersion(output string) (string, error) {
	match := dottedVersion.FindString(strings.TrimSpace(output))
	if match == "" {
		return "", fmt.Errorf("no version in %q: %w", output, ErrVersionUnavailable)
	}

	return match, nil
}
