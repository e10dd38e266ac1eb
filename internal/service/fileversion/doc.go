// Package fileversion reads the version of an installed executable.
//
// On Windows the fixed file-version resource embedded in the binary is used.
// Elsewhere the executable is run with --version and the first dotted
// version in its output is taken.
package fileversion
