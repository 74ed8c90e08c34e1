package xhtmlsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleSet_Lookups(t *testing.T) {
	r := DefaultRuleSet()

	assert.True(t, r.IsAcceptableElement("p"))
	assert.True(t, r.IsAcceptableElement("P"))
	assert.False(t, r.IsAcceptableElement("script"))
	assert.False(t, r.IsAcceptableElement("no-such-element"))

	assert.True(t, r.IsUnacceptableElement("script"))
	assert.True(t, r.IsUnacceptableElement("IFRAME"))
	assert.False(t, r.IsUnacceptableElement("blink"))

	assert.True(t, r.IsAcceptableAttribute("href"))
	assert.False(t, r.IsAcceptableAttribute("onclick"))
	assert.False(t, r.IsAcceptableAttribute("style"))

	assert.True(t, r.IsEmptyElement("br"))
	assert.False(t, r.IsEmptyElement("p"))

	assert.ElementsMatch(t, []string{"src", "longdesc", "usemap"}, r.RebaseAttributesFor("img"))
	assert.Empty(t, r.RebaseAttributesFor("p"))
}

func TestRuleSet_UnacceptableWins(t *testing.T) {
	r := DefaultRuleSet()
	r.acceptableElements["script"] = true

	assert.True(t, r.IsUnacceptableElement("script"))
	assert.False(t, r.IsAcceptableElement("script"))
}

func TestRuleSet_MutualExclusion(t *testing.T) {
	r := DefaultRuleSet()

	r.AddAcceptableElement("Script")
	assert.True(t, r.IsAcceptableElement("script"))
	assert.False(t, r.IsUnacceptableElement("script"))

	r.AddUnacceptableElement("script", "b")
	assert.False(t, r.IsAcceptableElement("script"))
	assert.False(t, r.IsAcceptableElement("b"))
	assert.True(t, r.IsUnacceptableElement("b"))

	r.RemoveUnacceptableElement("b")
	assert.False(t, r.IsAcceptableElement("b"))
	assert.False(t, r.IsUnacceptableElement("b"))
}

func TestRuleSet_Mutators(t *testing.T) {
	r := NewRuleSet()
	assert.False(t, r.IsAcceptableElement("p"))

	r.AddAcceptableElement("p", "wbr").
		AddEmptyElement("wbr").
		AddAcceptableAttribute("ID").
		AddAcceptableScheme("HTTPS").
		AddRebaseTarget("a", "href")

	assert.True(t, r.IsAcceptableElement("p"))
	assert.True(t, r.IsEmptyElement("wbr"))
	assert.True(t, r.IsAcceptableAttribute("id"))
	assert.True(t, r.IsAcceptableScheme("https"))
	assert.Equal(t, []string{"href"}, r.RebaseAttributesFor("A"))

	r.RemoveAcceptableElement("p").
		RemoveEmptyElement("wbr").
		RemoveAcceptableAttribute("id").
		RemoveAcceptableScheme("https").
		RemoveRebaseTarget("a", "href")

	assert.False(t, r.IsAcceptableElement("p"))
	assert.False(t, r.IsEmptyElement("wbr"))
	assert.False(t, r.IsAcceptableAttribute("id"))
	assert.False(t, r.IsAcceptableScheme("https"))
	assert.Empty(t, r.RebaseAttributesFor("a"))
}

func TestRuleSet_UnknownNamesAreNoops(t *testing.T) {
	r := DefaultRuleSet()
	before := r.Clone()

	r.RemoveAcceptableElement("no-such").
		RemoveUnacceptableElement("no-such").
		RemoveAcceptableAttribute("no-such").
		RemoveEmptyElement("no-such").
		RemoveRebaseTarget("no-such", "x")

	assert.Equal(t, before, r)
}

func TestRuleSet_Clone(t *testing.T) {
	r := DefaultRuleSet()
	c := r.Clone()

	c.AddAcceptableElement("script")
	c.AddRebaseTarget("img", "srcset")

	assert.True(t, r.IsUnacceptableElement("script"))
	assert.NotContains(t, r.RebaseAttributesFor("img"), "srcset")
	assert.Contains(t, c.RebaseAttributesFor("img"), "srcset")
}

func TestRuleSet_SchemeAllowed(t *testing.T) {
	r := DefaultRuleSet()

	tests := []struct {
		raw  string
		want bool
	}{
		{"page.html", true},
		{"/about", true},
		{"#top", true},
		{"//cdn.example.com/x.png", true},
		{"http://example.com", true},
		{"HTTPS://example.com", true},
		{"mailto:a@example.com", true},
		{"javascript:alert(1)", false},
		{" javascript:alert(1)", false},
		{"java\tscript:alert(1)", false},
		{"vbscript:msgbox", false},
		{"data:text/html,<script>", false},
		{"http://[::1", true},
		{"javascript://%zz", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.schemeAllowed(tt.raw), tt.raw)
	}
}
