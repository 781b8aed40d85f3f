package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTransitions(t *testing.T) {
	assert.True(t, StatusOpen.CanTransitionTo(StatusFulfilled))
	assert.True(t, StatusOpen.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusOpen.CanTransitionTo(StatusOpen))

	// terminal states
	for _, s := range []RequestStatus{StatusFulfilled, StatusCancelled} {
		for _, next := range []RequestStatus{StatusOpen, StatusFulfilled, StatusCancelled} {
			assert.False(t, s.CanTransitionTo(next), "%s -> %s", s, next)
		}
	}
}

func TestRequestStatusValid(t *testing.T) {
	assert.True(t, StatusOpen.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, RequestStatus("Closed").Valid())
}
