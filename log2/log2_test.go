package log2

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFilter(t *testing.T) {
	t.Parallel()

	b := &strings.Builder{}
	l := NewWriter(b, LInfo)
	l.SetFlags(0)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Errorf("shown %d", 3)
	out := b.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "error: shown 3")
}

func TestErrorFunc(t *testing.T) {
	t.Parallel()

	b := &strings.Builder{}
	l := NewWriter(b, LError)
	l.SetFlags(0)
	called := ""
	l.SetErrorFunc(func(format string, args ...interface{}) { called = format })
	l.Errorf("oops=%d", 1)
	assert.Equal(t, "oops=%d", called)
}

func TestNilSafe(t *testing.T) {
	t.Parallel()

	var l *Log
	l.Debugf("ignored")
	l.Infof("ignored")
	l.Errorf("ignored")
	assert.False(t, l.Enabled(LError))
}
