package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		street string
		number int
	}{
		{"simple", "San Martín 550", "San Martín", 550},
		{"leading whitespace", "   Nigro 575", "Nigro", 575},
		{"trailing text ignored", "Nigro 575 depto 3", "Nigro", 575},
		{"numeric street name", "11 de Septiembre 1200", "11 de Septiembre", 1200},
		{"punctuation kept", "Gral. Paz 500", "Gral. Paz", 500},
		{"first number wins", "Belgrano 900 1000", "Belgrano", 900},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseAddress(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.street, got.Street)
			assert.Equal(t, tc.number, got.Number)
		})
	}
}

func TestParseAddressRejects(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"SoloCalleSinNumero",
		"Nigro575",
		"575",
		"Nigro 0",
		"Nigro 99999999999999999999999",
	}

	for _, in := range inputs {
		_, ok := ParseAddress(in)
		assert.False(t, ok, "ParseAddress(%q) should fail", in)
	}
}

func TestParsedAddressLabel(t *testing.T) {
	addr, ok := ParseAddress("Gral. Paz 500")
	require.True(t, ok)
	assert.Equal(t, "Gral. Paz 500", addr.Label())
}
