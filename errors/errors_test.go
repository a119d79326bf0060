package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrUnknownTerm,
		ErrCacheConflict,
		ErrArtifactWrite,
		ErrRunCancelled,
		ErrRunActive,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "sentinel %v should not match %v", a, b)
		}
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrUnknownTerm, "looking up closure for Dog")
	assert.True(t, Is(err, ErrUnknownTerm))
	assert.True(t, IsUnknownTerm(err))
	assert.False(t, IsNotFoundError(err))
}

func TestWrapfAddsContext(t *testing.T) {
	err := Wrapf(ErrArtifactWrite, "dialect %s", "tff")
	assert.Contains(t, err.Error(), "dialect tff")
	assert.True(t, Is(err, ErrArtifactWrite))
}
