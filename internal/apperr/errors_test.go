package apperr

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 1, ExitCode(errors.Wrap(ErrCapability, "startup")))
	assert.Equal(t, 1, ExitCode(errors.Mark(errors.New("2/3 assets"), ErrPartialBatch)))
}

func TestMarkedSentinels(t *testing.T) {
	err := errors.Mark(errors.New("size must be positive"), ErrInvalidInput)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrWrite))

	hinted := errors.WithHint(err, "use a size of at least 1")
	assert.Equal(t, []string{"use a size of at least 1"}, Hints(hinted))
}
