package xhtmlsafe_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/xhtmlsafe"
)

func TestClean_Tidy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unclosed tags closed",
			input: `<p>hello <b>world`,
			want:  `<p>hello <b>world</b></p>`,
		},
		{
			name:  "void elements stay self-closed",
			input: `a<br>b<img src="x.png" alt="x">`,
			want:  `a<br />b<img src="x.png" alt="x" />`,
		},
		{
			name:  "misnested tags repaired",
			input: `<b><i>x</b></i>`,
			want:  `<b><i>x</i></b>`,
		},
		{
			name:  "implicitly closed paragraphs",
			input: `<p>one<p>two`,
			want:  `<p>one</p><p>two</p>`,
		},
		{
			name:  "text stays encoded",
			input: `<p>a &amp; b &lt; c</p>`,
			want:  `<p>a &amp; b &lt; c</p>`,
		},
		{
			name:  "excised content stays gone",
			input: `<p>x<script>y</script>`,
			want:  `<p>x</p>`,
		},
	}

	s := newSanitizer(t, xhtmlsafe.WithTidy(true))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Clean(tt.input))
		})
	}
}

func TestClean_TidyIndent(t *testing.T) {
	t.Parallel()

	s := newSanitizer(t, xhtmlsafe.WithNormalizer(xhtmlsafe.TidyNormalizer{Indent: true}))
	got := s.Clean(`<div><p>hello</p></div>`)
	assert.Contains(t, got, "\n")
	assert.Contains(t, got, "hello")
	assert.Contains(t, got, "<p>")
}

func TestClean_NoTidy(t *testing.T) {
	t.Parallel()

	s := newSanitizer(t, xhtmlsafe.WithTidy(true), xhtmlsafe.WithTidy(false))
	assert.Equal(t, `<p>hello <b>world`, s.Clean(`<p>hello <b>world`))

	s = newSanitizer(t, xhtmlsafe.WithNormalizer(nil))
	assert.Equal(t, `<p>hello <b>world`, s.Clean(`<p>hello <b>world`))
}

func TestClean_CustomNormalizer(t *testing.T) {
	t.Parallel()

	var seen string
	upper := xhtmlsafe.NormalizerFunc(func(s string) (string, error) {
		seen = s
		return strings.ToUpper(s), nil
	})

	s := newSanitizer(t, xhtmlsafe.WithNormalizer(upper), xhtmlsafe.WithTrimWhitespace(true))
	assert.Equal(t, `<P>X</P>`, s.Clean("<p>x</p><script>y</script> \n"))
	assert.Equal(t, "<p>x</p> \n", seen, "normalizer sees the untrimmed concatenation")
}

func TestClean_FailingNormalizer(t *testing.T) {
	t.Parallel()

	broken := xhtmlsafe.NormalizerFunc(func(string) (string, error) {
		return "", errors.New("boom")
	})

	s := newSanitizer(t, xhtmlsafe.WithNormalizer(broken))
	assert.Equal(t, `<p>hello <b>world`, s.Clean(`<p>hello <b>world`))
}

func TestTidyNormalizer(t *testing.T) {
	t.Parallel()

	got, err := xhtmlsafe.TidyNormalizer{}.Normalize(`<ul><li>a<li>b</ul><hr>`)
	require.NoError(t, err)
	assert.Equal(t, `<ul><li>a</li><li>b</li></ul><hr />`, got)
}
