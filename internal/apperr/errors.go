// Package apperr defines the error sentinels shared by every package of
// the generator, and the mapping from errors to process exit codes.
package apperr

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidInput marks a caller error: non positive size, bad color, unknown role.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapability marks a missing startup capability (drawing, encoding, fonts).
	ErrCapability = errors.New("missing capability")
	ErrEncode     = errors.New("encoding failed")
	ErrWrite      = errors.New("write failed")
	// ErrMalformedSVG is returned by the SVG reader and checker.
	ErrMalformedSVG = errors.New("malformed svg")
	// ErrPartialBatch is returned when at least one asset of a batch failed.
	ErrPartialBatch = errors.New("some assets failed")
)

// Hints returns the user facing hints attached to err, if any.
func Hints(err error) []string {
	return errors.GetAllHints(err)
}

// ExitCode returns the process exit code for err: 0 on success,
// 1 for any failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
