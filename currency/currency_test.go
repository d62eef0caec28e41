package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.50", Amount(150).Format100I())
	assert.Equal(t, "0.05", Amount(5).Format100I())
	assert.Equal(t, "$1.75", Amount(175).FormatDollar())
	assert.Equal(t, "$5.25", Amount(175).Mul(3).FormatDollar())
}
