//go:build windows

package fileversion

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// vsFixedFileInfoSignature marks a valid VS_FIXEDFILEINFO block.
const vsFixedFileInfoSignature = 0xFEEF04BD

var errNoFixedFileInfo = errors.New("file has no version resource")

// readVersion reads VS_FIXEDFILEINFO; the probe arguments are not used here.
func readVersion(_ context.Context, path string, _ []string) (string, error) {
	var zero windows.Handle

	size, err := windows.GetFileVersionInfoSize(path, &zero)
	if err != nil {
		return "", fmt.Errorf("version info size: %w", err)
	}

	if size == 0 {
		return "", errNoFixedFileInfo
	}

	buffer := make([]byte, size)
	if err = windows.GetFileVersionInfo(path, 0, size, unsafe.Pointer(&buffer[0])); err != nil {
		return "", fmt.Errorf("version info: %w", err)
	}

	var (
		fixed  *windows.VS_FIXEDFILEINFO
		length uint32
	)

	if err = windows.VerQueryValue(unsafe.Pointer(&buffer[0]), `\`, unsafe.Pointer(&fixed), &length); err != nil {
		return "", fmt.Errorf("query version value: %w", err)
	}

	if fixed == nil || length == 0 || fixed.Signature != vsFixedFileInfoSignature {
		return "", errNoFixedFileInfo
	}

	return fmt.Sprintf("%d.%d.%d.%d",
		fixed.FileVersionMS>>16,
		fixed.FileVersionMS&0xFFFF,
		fixed.FileVersionLS>>16,
		fixed.FileVersionLS&0xFFFF,
	), nil
}
