// Package updater runs the update workflow.
//
// A run is a state machine: load config, fetch the latest release, compare it
// with the installed version, then either stop as up to date or download the
// matching asset, stop the running application and install the asset over the
// old files. Every step runs once and the first failure ends the run.
package updater
