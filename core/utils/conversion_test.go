package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"12", 12},
		{" 32 ", 32},
		{12, 12},
		{int64(39), 39},
		{float64(15), 15},
		{"", 0},
		{"abc", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToInt(tt.in), "input %v", tt.in)
	}
}

func TestToFloat(t *testing.T) {
	assert.InDelta(t, 127.3845475, ToFloat("127.3845475"), 1e-9)
	assert.InDelta(t, 36.35, ToFloat(36.35), 1e-9)
	assert.Equal(t, 0.0, ToFloat(""))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "126508", ToString(126508))
	assert.Equal(t, "대전", ToString(" 대전 "))
	assert.Equal(t, "", ToString(nil))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool("Y"))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("N"))
	assert.False(t, ToBool(0))
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, NilIfEmpty("  "))
	p := NilIfEmpty(" text ")
	if assert.NotNil(t, p) {
		assert.Equal(t, "text", *p)
	}
	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "x", Deref(NilIfEmpty("x")))
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(NilIfEmpty("")))
}
