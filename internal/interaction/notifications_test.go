package interaction

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(ns []Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Text
	}
	return out
}

func TestNotifications_DropsOldestWhenFull(t *testing.T) {
	q := NewNotifications(testclock.NewClock(time.Now()))

	q.Success("one")
	q.Success("two")
	q.Failure("three")
	q.Success("four")

	active := q.Active()
	assert.Equal(t, []string{"two", "three", "four"}, texts(active))
	assert.Equal(t, LevelFailure, active[1].Level)
}

func TestNotifications_AutoDismiss(t *testing.T) {
	clk := testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	q := NewNotifications(clk)

	q.Success("first")
	clk.Advance(2 * time.Second)
	q.Success("second")

	clk.Advance(2*time.Second + time.Millisecond)
	require.Eventually(t, func() bool {
		return len(q.Active()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"second"}, texts(q.Active()))

	clk.Advance(2 * time.Second)
	require.Eventually(t, func() bool {
		return len(q.Active()) == 0
	}, time.Second, time.Millisecond)
}

func TestNotifications_Dismiss(t *testing.T) {
	q := NewNotifications(testclock.NewClock(time.Now()))

	n := q.Success("saved")
	assert.True(t, q.Dismiss(n.ID))
	assert.False(t, q.Dismiss(n.ID))
	assert.Empty(t, q.Active())
}

func TestNotifications_Options(t *testing.T) {
	clk := testclock.NewClock(time.Now())
	var pushed []string
	q := NewNotifications(clk,
		WithCapacity(1),
		WithDuration(time.Second),
		OnPush(func(n Notification) { pushed = append(pushed, n.Text) }),
	)

	q.Success("a")
	q.Failure("b")

	assert.Equal(t, []string{"b"}, texts(q.Active()))
	assert.Equal(t, []string{"a", "b"}, pushed)

	clk.Advance(time.Second)
	require.Eventually(t, func() bool {
		return len(q.Active()) == 0
	}, time.Second, time.Millisecond)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "failure", LevelFailure.String())
}
