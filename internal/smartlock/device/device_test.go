package device_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BrandonDHaskell/Portunus/smartlock/internal/smartlock/device"
)

func TestEchoToCentimeters(t *testing.T) {
	cases := []struct {
		width time.Duration
		want  device.Centimeters
	}{
		{0, 0},
		{-time.Microsecond, 0},
		{58 * time.Microsecond, 0},  // 0.986 truncates
		{59 * time.Microsecond, 1},  // 1.003
		{294 * time.Microsecond, 4}, // 4.998
		{295 * time.Microsecond, 5},
		{588 * time.Microsecond, 9},
		{589 * time.Microsecond, 10},
		{2941 * time.Microsecond, 49},
		{time.Second, 17000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, device.EchoToCentimeters(c.width), "width %s", c.width)
	}
}

func TestKeymapLayout(t *testing.T) {
	seen := map[device.Key]bool{}
	for _, row := range device.Keymap {
		for _, k := range row {
			seen[k] = true
		}
	}
	assert.Len(t, seen, 12)
	for _, k := range "0123456789*#" {
		assert.True(t, seen[device.Key(k)], "missing %q", k)
	}
	assert.Equal(t, device.KeyIgnore, device.Keymap[3][0])
	assert.Equal(t, device.KeySubmit, device.Keymap[3][2])
}

func TestKeyIsDigit(t *testing.T) {
	assert.True(t, device.Key('0').IsDigit())
	assert.True(t, device.Key('9').IsDigit())
	assert.False(t, device.KeySubmit.IsDigit())
	assert.False(t, device.KeyIgnore.IsDigit())
}
