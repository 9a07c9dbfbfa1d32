package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackSpeedIsValid(t *testing.T) {
	for _, speed := range PlaybackSpeeds() {
		assert.True(t, speed.IsValid(), "speed %v should be valid", speed)
	}

	assert.False(t, PlaybackSpeed(0).IsValid())
	assert.False(t, PlaybackSpeed(3).IsValid())
	assert.False(t, PlaybackSpeed(1.1).IsValid())
	assert.False(t, PlaybackSpeed(-1).IsValid())
}

func TestPlayerErrorError(t *testing.T) {
	perr := &PlayerError{Code: "STREAM_FATAL_ERROR", Message: "fatal streaming error occurred"}
	assert.Contains(t, perr.Error(), "STREAM_FATAL_ERROR")
	assert.Contains(t, perr.Error(), "fatal streaming error occurred")

	var err error = perr
	var target *PlayerError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "STREAM_FATAL_ERROR", target.Code)
}
