package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses whitespace and strips punctuation", "  Cool   Watch!!  (2024) ", "Cool Watch 2024"},
		{"keeps french letters and allowed symbols", "Montre d'homme & femme élégante - Noël", "Montre d'homme & femme élégante - Noël"},
		{"strips markup characters", "<b>Bold</b>", "bBoldb"},
		{"punctuation between spaces", "Cool . Watch / Steel", "Cool Watch Steel"},
		{"symbols only between words", "Pack | 2 x | USB-C", "Pack 2 x USB-C"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.input))
		})
	}
}

func TestCleanTitle_Truncates(t *testing.T) {
	got := CleanTitle(strings.Repeat("é", 600))
	assert.Equal(t, 500, utf8.RuneCountInString(got))
}

func TestCleanTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"  Cool   Watch!!  (2024) ",
		"Cool . Watch / Steel",
		"Écouteurs ~ sans fil * 2024 ?",
	}

	for _, input := range inputs {
		once := CleanTitle(input)
		assert.Equal(t, once, CleanTitle(once), "input %q", input)
		assert.NotContains(t, once, "  ", "input %q", input)
	}
}

func TestCleanDescription(t *testing.T) {
	input := "<p>Hello</p><SCRIPT type=\"text/javascript\">alert(1)\nmore()</script>  \n there<style>\n.a { color: red }\n</STYLE> <b>end</b>"
	assert.Equal(t, "<p>Hello</p> there <b>end</b>", CleanDescription(input))

	long := strings.Repeat("a", 60000)
	assert.Len(t, CleanDescription(long), 50000)
}
