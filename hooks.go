package xhtmlsafe

import (
	"strings"

	"golang.org/x/net/html"
)

// TagOpenFunc observes an open tag before the rules are applied. The name
// and attributes may be rewritten in place. Returning false drops the tag.
type TagOpenFunc func(s *Sanitizer, name *string, attrs *[]html.Attribute) bool

// TagCloseFunc observes a close tag. Returning false drops it.
type TagCloseFunc func(s *Sanitizer, name *string) bool

// TextFunc observes text that is about to be written. Returning false drops
// the text.
//
// A <![CDATA[...]]> section causes two kinds of calls. First the hook is
// called once with the raw section body and marked set to true; returning
// false drops the whole section. The body is then sanitized, and each text
// run found inside it is reported again with marked set to false.
type TextFunc func(s *Sanitizer, text *string, marked bool) bool

// OutputFunc receives the accepted fragments of a run in order and may
// replace them. Returning false makes the run produce "".
type OutputFunc func(s *Sanitizer, fragments *[]string) bool

// Hooks holds the four interception points. A nil field accepts every
// token unchanged.
type Hooks struct {
	TagOpen  TagOpenFunc
	TagClose TagCloseFunc
	Text     TextFunc
	Output   OutputFunc
}

func (h *Hooks) tagOpen(s *Sanitizer, name *string, attrs *[]html.Attribute) bool {
	return h.TagOpen == nil || h.TagOpen(s, name, attrs)
}

func (h *Hooks) tagClose(s *Sanitizer, name *string) bool {
	return h.TagClose == nil || h.TagClose(s, name)
}

func (h *Hooks) text(s *Sanitizer, text *string, marked bool) bool {
	return h.Text == nil || h.Text(s, text, marked)
}

func (h *Hooks) output(s *Sanitizer, fragments *[]string) bool {
	return h.Output == nil || h.Output(s, fragments)
}

// SetTagOpenHook installs fn. A nil fn is ignored.
func (s *Sanitizer) SetTagOpenHook(fn TagOpenFunc) {
	if fn != nil {
		s.hooks.TagOpen = fn
	}
}

// SetTagCloseHook installs fn. A nil fn is ignored.
func (s *Sanitizer) SetTagCloseHook(fn TagCloseFunc) {
	if fn != nil {
		s.hooks.TagClose = fn
	}
}

// SetTextHook installs fn. A nil fn is ignored.
func (s *Sanitizer) SetTextHook(fn TextFunc) {
	if fn != nil {
		s.hooks.Text = fn
	}
}

// SetOutputHook installs fn. A nil fn is ignored.
func (s *Sanitizer) SetOutputHook(fn OutputFunc) {
	if fn != nil {
		s.hooks.Output = fn
	}
}

// UnsetTagOpenHook restores the default, which accepts every open tag.
func (s *Sanitizer) UnsetTagOpenHook() { s.hooks.TagOpen = nil }

// UnsetTagCloseHook restores the default, which accepts every close tag.
func (s *Sanitizer) UnsetTagCloseHook() { s.hooks.TagClose = nil }

// UnsetTextHook restores the default, which accepts all text.
func (s *Sanitizer) UnsetTextHook() { s.hooks.Text = nil }

// UnsetOutputHook restores the default, which keeps the fragments as is.
func (s *Sanitizer) UnsetOutputHook() { s.hooks.Output = nil }

// SetAttr sets (or adds) the attribute key=val. It is intended for use
// inside TagOpenFunc hooks.
func SetAttr(attrs *[]html.Attribute, key, val string) {
	key = strings.ToLower(key)
	for i, a := range *attrs {
		if a.Key == key {
			(*attrs)[i].Val = val
			return
		}
	}
	*attrs = append(*attrs, html.Attribute{Key: key, Val: val})
}

// GetAttr returns the value of the named attribute, or "" if not present.
func GetAttr(attrs []html.Attribute, key string) string {
	key = strings.ToLower(key)
	for _, a := range attrs {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// RemoveAttr removes every occurrence of the named attribute.
func RemoveAttr(attrs *[]html.Attribute, key string) {
	key = strings.ToLower(key)
	out := (*attrs)[:0]
	for _, a := range *attrs {
		if a.Key != key {
			out = append(out, a)
		}
	}
	*attrs = out
}
