package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Maggi Noodles", "magginoodles"},
		{"strips diacritics", "Nescafé Café", "nescafecafe"},
		{"drops punctuation", "coca-cola (1.5L)", "cocacola15l"},
		{"drops whitespace", "  peak   milk  ", "peakmilk"},
		{"keeps digits", "7Up 500ml", "7up500ml"},
		{"empty input", "", ""},
		{"only symbols", "!!! ???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	input := "Índomie Chicken 70g"
	assert.Equal(t, Normalize(input), Normalize(input))
}

func TestHasSignal(t *testing.T) {
	assert.False(t, HasSignal(""))
	assert.False(t, HasSignal("ab"))
	assert.True(t, HasSignal("abc"))
	assert.True(t, HasSignal(Normalize("Maggi")))
	assert.False(t, HasSignal(Normalize("a!")))
}
