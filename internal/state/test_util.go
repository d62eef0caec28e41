package state

import (
	"context"
	"testing"
	"time"

	"github.com/temoto/snackbox/hardware/iodev"
	"github.com/temoto/snackbox/log2"
)

// NewTestContext builds a Global over a mock port bus with fake time: Sleep
// advances the clock instead of waiting, so loop-driven tests run instantly.
func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)

	var now time.Duration
	g.Clock = func() time.Duration { return now }
	g.Sleep = func(d time.Duration) { now += d }

	g.MustInit(ctx, MustReadConfig(log, fs, "test-inline"))
	if err := g.InitHardware(iodev.NewMock()); err != nil {
		t.Fatal(err)
	}
	return ctx, g
}
