package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Silver Sword", "silver sword"},
		{"  silver   SWORD ", "silver sword"},
		{"Ladá Stone", "lada stone"},
		{"Ёж", "еж"},
		{"ЗЕЛЬЕ", "зелье"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.in))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Серебряный клинок", "серебряный  клинок"))
	assert.True(t, Equal("ёлка", "Елка"))
	assert.False(t, Equal("frost rune", "light rune"))
}
