package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle_ShortContentVerbatim(t *testing.T) {
	assert.Equal(t, "How much leave do I get?", DeriveTitle("How much leave do I get?"))
}

func TestDeriveTitle_ExactLimitVerbatim(t *testing.T) {
	content := strings.Repeat("x", 36)
	assert.Equal(t, content, DeriveTitle(content))
}

func TestDeriveTitle_LongContentTruncated(t *testing.T) {
	title := DeriveTitle(strings.Repeat("x", 50))

	assert.Equal(t, strings.Repeat("x", 33)+"...", title)
	assert.Equal(t, 36, utf8.RuneCountInString(title))
}

func TestDeriveTitle_CountsRunesNotBytes(t *testing.T) {
	title := DeriveTitle(strings.Repeat("ü", 40))

	assert.Equal(t, strings.Repeat("ü", 33)+"...", title)
	assert.Equal(t, 36, utf8.RuneCountInString(title))
}
