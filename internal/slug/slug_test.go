package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Hello, World! 2026", "hello-world-2026"},
		{"accents folded", "Déjà Vu, Explained!", "deja-vu-explained"},
		{"consecutive separators", "a  --  b", "a-b"},
		{"leading and trailing", "  -Getting Started-  ", "getting-started"},
		{"already slugged", "getting-started", "getting-started"},
		{"empty", "", ""},
		{"only punctuation", "!?!", ""},
		{"mixed case", "API Reference", "api-reference"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Generate(tc.input))
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	input := "Çünkü Ünïcödé"
	first := Generate(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(input))
	}
}
