package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStateTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct {
		from, to JobState
	}{
		{StateQueuedForPickup, StatePickedUp},
		{StatePickedUp, StateAtShop},
		{StateAtShop, StateInService},
		{StateInService, StateServiceComplete},
		{StateServiceComplete, StateReadyForPickup},
		{StateServiceComplete, StateQueuedForDelivery},
		{StateServiceComplete, StateDelivered},
		{StateReadyForPickup, StatePickedUpFromShop},
		{StatePickedUpFromShop, StateDelivered},
		{StateQueuedForDelivery, StateDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to JobState
	}{
		{StateQueuedForPickup, StateAtShop},
		{StatePickedUp, StateInService},
		{StateAtShop, StateServiceComplete},
		{StateInService, StateDelivered},
		{StateReadyForPickup, StateDelivered},
		{StateDelivered, StateCancelled},
		{StateCancelled, StateQueuedForPickup},
		{StateAtShop, StatePickedUp},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to),
			"%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestJobStateCancellableFromAnyNonTerminal(t *testing.T) {
	t.Parallel()

	for state := range allowedTransitions {
		if state.Terminal() {
			assert.False(t, state.CanTransitionTo(StateCancelled),
				"terminal state %s must not transition", state)
			continue
		}
		assert.True(t, state.CanTransitionTo(StateCancelled),
			"%s should be cancellable", state)
	}
}

func TestJobStateTerminalHasNoExits(t *testing.T) {
	t.Parallel()

	assert.Empty(t, StateDelivered.AllowedNext())
	assert.Empty(t, StateCancelled.AllowedNext())
	assert.True(t, StateDelivered.Terminal())
	assert.True(t, StateCancelled.Terminal())
	assert.False(t, StateServiceComplete.Terminal())
}

func TestJobStateEntryPoints(t *testing.T) {
	t.Parallel()

	assert.True(t, StateQueuedForPickup.EntryPoint())
	assert.True(t, StateAtShop.EntryPoint())
	assert.False(t, StatePickedUp.EntryPoint())
	assert.False(t, StateDelivered.EntryPoint())
}

func TestJobStateUnmarshalText(t *testing.T) {
	t.Parallel()

	var s JobState
	require.NoError(t, s.UnmarshalText([]byte("  In_Service ")))
	assert.Equal(t, StateInService, s)

	require.Error(t, s.UnmarshalText([]byte("warp_drive")))
}

func TestNewJobIDMatchesPattern(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 50 {
		id := NewJobID()
		assert.Regexp(t, `^SJ-[0-9A-F]{8}$`, id)
		assert.True(t, JobIDPattern.MatchString(id))
		seen[id] = true
	}
	// 50 draws from a 32-bit space should not collide.
	assert.Greater(t, len(seen), 45)
}

func TestCreateJobRequestValidate(t *testing.T) {
	t.Parallel()

	valid := CreateJobRequest{
		CustomerName:  "Apex Auto",
		ShopName:      "North Shop",
		InitialState:  StateQueuedForPickup,
		PickupAddress: "100 Main St",
	}
	require.NoError(t, valid.Validate())

	dropOff := CreateJobRequest{
		CustomerName: "Apex Auto",
		ShopName:     "North Shop",
		InitialState: StateAtShop,
	}
	require.NoError(t, dropOff.Validate())

	tests := map[string]CreateJobRequest{
		"missing customer": {
			ShopName: "North Shop", InitialState: StateAtShop,
		},
		"missing shop": {
			CustomerName: "Apex Auto", InitialState: StateAtShop,
		},
		"bad entry state": {
			CustomerName: "Apex Auto", ShopName: "North Shop",
			InitialState: StateInService,
		},
		"pickup without address": {
			CustomerName: "Apex Auto", ShopName: "North Shop",
			InitialState: StateQueuedForPickup,
		},
	}
	for name, req := range tests {
		assert.Error(t, req.Validate(), name)
	}
}

func TestJobStateTimestampRoundTrip(t *testing.T) {
	t.Parallel()

	job := &Job{}
	assert.Nil(t, job.StateTimestamp(StateAtShop))

	ts := mustTime(t, "2025-01-10T14:00:00Z")
	job.AtShopAt = &ts
	got := job.StateTimestamp(StateAtShop)
	require.NotNil(t, got)
	assert.Equal(t, ts, *got)

	assert.Nil(t, job.StateTimestamp(JobState("bogus")))
}
