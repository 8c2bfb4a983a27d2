package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 1700.0, Round2(1700.004))
}

func TestFloorUnit(t *testing.T) {
	assert.Equal(t, 89.0, FloorUnit(89.991))
	assert.Equal(t, 89.0, FloorUnit(89.1))
	assert.Equal(t, 90.0, FloorUnit(90))
}
