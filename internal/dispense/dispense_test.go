package dispense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/snackbox/hardware"
	"github.com/temoto/snackbox/internal/anim"
	"github.com/temoto/snackbox/log2"
)

var testFrames = []string{"d1", "d2", "d3", "d4"}

type tenv struct {
	motor *hardware.MockMotor
	track *anim.Track
	shown []string
	now   time.Duration
	sync  *Synchronizer
}

func testEnv(t testing.TB) *tenv {
	env := &tenv{motor: &hardware.MockMotor{}, track: &anim.Track{}}
	env.track.Show = func(f string) { env.shown = append(env.shown, f) }
	cfg := Config{}
	cfg.SetDefaults()
	env.sync = &Synchronizer{
		Motor: env.motor,
		Track: env.track,
		Now:   func() time.Duration { return env.now },
		// fake time: every sleep advances the clock
		Sleep: func(d time.Duration) { env.now += d },
		Log:   log2.NewTest(t, log2.LDebug),
		Cfg:   cfg,
	}
	return env
}

func assertPhaseOrder(t *testing.T, phases []int, start int) {
	for i, p := range phases {
		assert.Equal(t, (start+i)&3, p, "phase out of order at i=%d", i)
	}
}

func TestRunSingleUnit(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	env.track.Arm(testFrames, +1, 800*time.Millisecond, env.now)
	require.NoError(t, env.sync.Run(1))

	assert.Equal(t, 60*4, len(env.motor.Phases))
	assertPhaseOrder(t, env.motor.Phases, 0)
	assert.True(t, env.track.Done(), "animation must complete at or before Run returns")
	assert.Equal(t, testFrames, env.shown)
	assert.Equal(t, 1, env.motor.Stops)
}

func TestRunMultiUnitPhaseContinuity(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	env.track.Arm(testFrames, +1, 800*time.Millisecond, env.now)
	require.NoError(t, env.sync.Run(3))
	assert.Equal(t, 3*60*4, len(env.motor.Phases))
	assertPhaseOrder(t, env.motor.Phases, 0)
	assert.Equal(t, 3, env.motor.Stops)
	assert.True(t, env.track.Done())

	// next run continues the rotation where the previous one stopped
	env.track.Arm(testFrames, +1, 800*time.Millisecond, env.now)
	prev := len(env.motor.Phases)
	require.NoError(t, env.sync.Run(1))
	assertPhaseOrder(t, env.motor.Phases[prev:], env.motor.Phases[prev-1]+1)
}

func TestRunRejectsZero(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	assert.Error(t, env.sync.Run(0))
	assert.Error(t, env.sync.Run(-2))
	assert.Empty(t, env.motor.Phases)
}

func TestAnimationDrainsWithSlowCadence(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	// cadence longer than the whole motor burst still finishes exactly once
	env.track.Arm(testFrames, +1, 10*time.Second, env.now)
	require.NoError(t, env.sync.Run(1))
	assert.True(t, env.track.Done())
	assert.Equal(t, testFrames, env.shown)
}

func TestTestSpin(t *testing.T) {
	t.Parallel()

	env := testEnv(t)
	require.NoError(t, env.sync.TestSpin(2))
	assert.Equal(t, 2*18*4, len(env.motor.Phases))
	assertPhaseOrder(t, env.motor.Phases, 0)
	assert.Equal(t, 2, env.motor.Stops)

	assert.Error(t, env.sync.TestSpin(0))
	assert.Error(t, env.sync.TestSpin(16))
}
