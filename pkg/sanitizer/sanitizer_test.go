package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Math", "Math"},
		{"  Math  ", "Math"},
		{"Organic   Chemistry", "Organic Chemistry"},
		{"\tline\nbreaks\t here ", "line breaks here"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TrimAndNormalize(tc.in))
	}
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "cbse", NormalizeToken("  CBSE "))
	assert.Equal(t, "online", NormalizeToken("Online"))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestNormalizeSubjectKeepsCase(t *testing.T) {
	assert.Equal(t, "Math", NormalizeSubject(" Math "))
	assert.Equal(t, "MATH", NormalizeSubject("MATH"))
}

func TestNormalizeSlice(t *testing.T) {
	in := []string{" Algebra ", "algebra", "Algebra", "", "  ", "Trigonometry"}
	got := NormalizeSlice(in, NormalizeToken)
	assert.Equal(t, []string{"algebra", "trigonometry"}, got)

	kept := NormalizeSlice([]string{"B", "a", "B"}, TrimAndNormalize)
	assert.Equal(t, []string{"B", "a"}, kept)
}
