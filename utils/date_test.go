package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDate(t *testing.T) {
	fallback := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	march5 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"dash separated", "2024-03-05", march5},
		{"slash separated", "2024/03/05", march5},
		{"mixed separators", "2024-03/05", march5},
		{"timestamp suffix is truncated", "2024-03-05T10:00:00Z", march5},
		{"timestamp with offset", "2024-03-05T23:59:59-03:00", march5},
		{"surrounding spaces", "  2024-03-05  ", march5},
		{"compact iso", "20240305", march5},
		{"empty", "", fallback},
		{"blank", "   ", fallback},
		{"garbage", "not-a-date", fallback},
		{"month out of range", "2024-13-05", fallback},
		{"day out of range", "2024-03-32", fallback},
		{"day zero", "2024-03-00", fallback},
		{"too few parts", "2024-03", fallback},
		{"brazilian order is rejected by range check", "05/03/2024", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDate(tt.raw, fallback))
		})
	}
}

func TestResolveDate_NoPerMonthValidation(t *testing.T) {
	fallback := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	got := ResolveDate("2023-02-30", fallback)

	assert.NotEqual(t, fallback, got)
	assert.Equal(t, time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 5, 17, 45, 12, 99, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), DateOnly(in))
}
