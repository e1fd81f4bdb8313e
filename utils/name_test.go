package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José Ávila", "jose avila"},
		{"  JOÃO SILVA ", "joao silva"},
		{"Conceição", "conceicao"},
		{"Íris Úrsula Órion", "iris ursula orion"},
		{"Estêvão", "estêvao"}, // ê is outside the folded set
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}
