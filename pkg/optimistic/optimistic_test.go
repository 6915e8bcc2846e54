package optimistic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyConfirms(t *testing.T) {
	value := 1
	var seen []Status

	status, err := Apply(
		func() { value = 2 },
		func() error { return nil },
		func() { value = 1 },
		func(s Status) { seen = append(seen, s) },
	)

	assert.NoError(t, err)
	assert.Equal(t, Confirmed, status)
	assert.Equal(t, 2, value)
	assert.Equal(t, []Status{Pending, Confirmed}, seen)
}

func TestApplyRollsBack(t *testing.T) {
	value := 1
	boom := errors.New("boom")
	var seen []Status

	status, err := Apply(
		func() { value = 2 },
		func() error {
			assert.Equal(t, 2, value, "mutation visible while pending")
			return boom
		},
		func() { value = 1 },
		func(s Status) { seen = append(seen, s) },
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, RolledBack, status)
	assert.Equal(t, 1, value)
	assert.Equal(t, []Status{Pending, RolledBack}, seen)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "confirmed", Confirmed.String())
	assert.Equal(t, "rolled_back", RolledBack.String())
}
