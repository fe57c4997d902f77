package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateDescription(t *testing.T) {
	t.Run("short descriptions pass through", func(t *testing.T) {
		assert.Equal(t, "wrap errors", truncateDescription("wrap errors", 60))
		assert.Equal(t, strings.Repeat("a", 60), truncateDescription(strings.Repeat("a", 60), 60))
	})

	t.Run("long descriptions get an ellipsis", func(t *testing.T) {
		got := truncateDescription(strings.Repeat("a", 70), 60)
		assert.Equal(t, strings.Repeat("a", 57)+"...", got)
	})

	t.Run("multi-byte runes are never split", func(t *testing.T) {
		got := truncateDescription(strings.Repeat("é", 70), 60)
		assert.Equal(t, strings.Repeat("é", 57)+"...", got)
		assert.True(t, utf8.ValidString(got))
	})
}
