package updater

import (
	"errors"
	"fmt"
	"slices"
)

// State is a step of the update workflow.
type State int

const (
	// StateLoadingConfig reads and validates the config file.
	StateLoadingConfig State = iota
	// StateFetchingRelease downloads the release description.
	StateFetchingRelease
	// StateComparingVersions reads the installed version and compares it with the tag.
	StateComparingVersions
	// StateUpToDate is terminal: nothing to install.
	StateUpToDate
	// StateDownloading selects the asset and downloads it next to the executable.
	StateDownloading
	// StateTerminating stops running instances of the target executable.
	StateTerminating
	// StateExtracting installs the downloaded asset.
	StateExtracting
	// StateDone is terminal: the new version is installed.
	StateDone
	// StateFailed is terminal: a step returned an error.
	StateFailed
)

// ErrIllegalTransition is returned when the workflow tries to skip or repeat a step.
var ErrIllegalTransition = errors.New("illegal state transition")

//nolint:gochecknoglobals // Static transition table.
var transitions = map[State][]State{
	StateLoadingConfig:     {StateFetchingRelease},
	StateFetchingRelease:   {StateComparingVersions},
	StateComparingVersions: {StateUpToDate, StateDownloading},
	StateDownloading:       {StateTerminating},
	StateTerminating:       {StateExtracting},
	StateExtracting:        {StateDone},
}

//nolint:gochecknoglobals // Static names table.
var stateNames = map[State]string{
	StateLoadingConfig:     "LoadingConfig",
	StateFetchingRelease:   "FetchingRelease",
	StateComparingVersions: "ComparingVersions",
	StateUpToDate:          "UpToDate",
	StateDownloading:       "Downloading",
	StateTerminating:       "Terminating",
	StateExtracting:        "Extracting",
	StateDone:              "Done",
	StateFailed:            "Failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the workflow stops in s.
func (s State) Terminal() bool {
	return s == StateUpToDate || s == StateDone || s == StateFailed
}

// Successful reports whether s ends a run without error.
func (s State) Successful() bool {
	return s == StateUpToDate || s == StateDone
}

// checkTransition allows the forward edges of the workflow and Failed from any
// non-terminal state.
func checkTransition(from, to State) error {
	if from.Terminal() {
		return fmt.Errorf("%s is terminal, cannot move to %s: %w", from, to, ErrIllegalTransition)
	}

	if to == StateFailed || slices.Contains(transitions[from], to) {
		return nil
	}

	return fmt.Errorf("%s -> %s: %w", from, to, ErrIllegalTransition)
}
