package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/app-updater/internal/logger"
)

// Lister enumerates running processes. ps.Processes satisfies it.
type Lister func() ([]ps.Process, error)

// Terminator kills processes by executable name.
type Terminator struct {
	// list enumerates processes.
	list Lister
	// kill stops a single process by PID.
	kill func(pid int) error
	// find looks a PID up again after a failed kill; nil means it has exited.
	find func(pid int) (ps.Process, error)
	// goos selects the name comparison rules.
	goos string
	// selfPID is never killed.
	selfPID int
}

// NewTerminator returns a Terminator backed by the OS process table.
func NewTerminator() *Terminator {
	return &Terminator{
		list:    ps.Processes,
		kill:    killPID,
		find:    ps.FindProcess,
		goos:    runtime.GOOS,
		selfPID: os.Getpid(),
	}
}

// KillByExecutablePath kills every process whose executable name equals the
// base name of path and returns how many were stopped. Processes that exit
// between listing and kill are skipped.
func (t *Terminator) KillByExecutablePath(ctx context.Context, path string) (int, error) {
	executableName := filepath.Base(filepath.Clean(path))

	processList, err := t.list()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}

	killed := 0

	for _, process := range processList {
		processID := process.Pid()
		if processID == t.selfPID {
			continue
		}

		if !sameExecutable(t.goos, process.Executable(), executableName) {
			continue
		}

		if err = t.kill(processID); err != nil {
			if errors.Is(err, os.ErrProcessDone) || t.exited(processID) {
				logger.DebugKV(ctx, "Process exited before kill", "name", executableName, "pid", processID)
				continue
			}

			return killed, fmt.Errorf("kill %s (pid %d): %w", executableName, processID, err)
		}

		logger.InfoKV(ctx, "Killed running process", "name", executableName, "pid", processID)

		killed++
	}

	return killed, nil
}

// exited reports whether pid is gone from the process table. On Windows
// os.FindProcess fails with an OpenProcess error rather than os.ErrProcessDone
// for a PID that has just exited.
func (t *Terminator) exited(pid int) bool {
	process, err := t.find(pid)

	return err == nil && process == nil
}

// linuxCommLength is the size limit of the name in /proc/<pid>/stat, which
// go-ps reports as the executable name on Linux.
const linuxCommLength = 15

// sameExecutable compares names, ignoring case on Windows and comparing
// against the truncated comm name on Linux.
func sameExecutable(goos, processName, executableName string) bool {
	switch goos {
	case "windows":
		return strings.EqualFold(processName, executableName)
	case "linux":
		if len(executableName) > linuxCommLength {
			executableName = executableName[:linuxCommLength]
		}
	}

	return processName == executableName
}

func killPID(pid int) error {
	runningProcess, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	return runningProcess.Kill()
}
