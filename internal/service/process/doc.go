// Package process stops running instances of the target executable before
// its files are overwritten.
package process
