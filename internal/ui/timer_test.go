package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/temoto/snackbox/hardware"
)

func sec(n int) time.Duration { return time.Duration(n) * time.Second }

func TestCountdown(t *testing.T) {
	t.Parallel()

	seg := &hardware.MockIndicator{}
	cd := Countdown{Seg: seg, Duration: sec(9)}

	assert.False(t, cd.Active())
	assert.Equal(t, -1, cd.SecondsLeft(0))

	cd.Start(sec(10))
	assert.True(t, cd.Active())
	assert.Equal(t, 9, cd.SecondsLeft(sec(10)))
	// partial second rounds up
	assert.Equal(t, 9, cd.SecondsLeft(sec(10)+500*time.Millisecond))
	assert.Equal(t, 1, cd.SecondsLeft(sec(19)-time.Millisecond))
	assert.Equal(t, 0, cd.SecondsLeft(sec(19)))
	assert.Equal(t, 0, cd.SecondsLeft(sec(30)))
	assert.True(t, cd.Expired(sec(19)))
	assert.False(t, cd.Expired(sec(18)))
}

func TestCountdownDisplayEdgeTriggered(t *testing.T) {
	t.Parallel()

	seg := &hardware.MockIndicator{}
	cd := Countdown{Seg: seg, Duration: sec(9)}
	cd.Start(0)

	cd.UpdateDisplay(0)
	cd.UpdateDisplay(100 * time.Millisecond)
	cd.UpdateDisplay(900 * time.Millisecond)
	assert.Equal(t, []int{9}, seg.Writes)

	cd.UpdateDisplay(sec(1))
	assert.Equal(t, []int{9, 8}, seg.Writes)

	cd.Stop()
	assert.False(t, cd.Active())
	assert.Equal(t, -1, seg.Last())
}

func TestHeartbeat(t *testing.T) {
	t.Parallel()

	seg := &hardware.MockIndicator{}
	hb := Heartbeat{Seg: seg, Period: 500 * time.Millisecond}

	hb.Reset()
	assert.Equal(t, []int{0}, seg.Writes)

	hb.Tick(sec(1)) // first tick after reset re-shows and schedules
	hb.Tick(sec(1) + 200*time.Millisecond)
	assert.Equal(t, []int{0, 0}, seg.Writes)

	hb.Tick(sec(1) + 500*time.Millisecond)
	assert.Equal(t, -1, seg.Last())
	hb.Tick(sec(2))
	assert.Equal(t, 0, seg.Last())
}
