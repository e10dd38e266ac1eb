// Package install puts a downloaded artifact in place.
//
// Archives are unpacked by an external 7-Zip compatible tool run inside the
// installation directory. Bare executables are swapped in with go-update.
package install
