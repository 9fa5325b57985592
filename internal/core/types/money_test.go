package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"-10.005", "-10.01"},
		{"499.995", "500"},
		{"0", "0"},
	}
	for _, tt := range tests {
		got := HalfUp(MustMoney(tt.in))
		assert.True(t, got.Equal(MustMoney(tt.want)), "HalfUp(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestHalve(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000", "500"},
		{"999.01", "499.51"},  // 499.505 rounds half away from zero
		{"-999.01", "-499.51"},
		{"0.01", "0.01"}, // 0.005 rounds up
		{"0", "0"},
	}
	for _, tt := range tests {
		got := Halve(MustMoney(tt.in))
		assert.True(t, got.Equal(MustMoney(tt.want)), "Halve(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestHalveRoundsBeforeReuse(t *testing.T) {
	// Halving twice must use the rounded intermediate, not the raw quotient.
	profit := MustMoney("999.99")
	half := Halve(profit)
	assert.True(t, half.Equal(MustMoney("500.00")))

	again := Halve(half)
	assert.True(t, again.Equal(MustMoney("250.00")))
}

func TestMoneyFromInt(t *testing.T) {
	assert.True(t, MoneyFromInt(42).Equal(MustMoney("42")))
	assert.True(t, MoneyFromInt(-3).Equal(MustMoney("-3")))
}
