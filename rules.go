package xhtmlsafe

import (
	"maps"
	"net/url"
	"strings"
)

// RuleSet holds the whitelist tables consulted for every token. Names are
// matched case-insensitively. An element that is both acceptable and
// unacceptable is treated as unacceptable.
//
// A RuleSet must not be mutated while a Clean call that uses it is in
// flight.
type RuleSet struct {
	acceptableElements   map[string]bool
	acceptableAttributes map[string]bool
	emptyElements        map[string]bool
	unacceptableElements map[string]bool
	acceptableSchemes    map[string]bool

	// rebaseTargets maps an element to the attributes holding URIs that
	// are resolved against the base URI.
	rebaseTargets map[string]map[string]bool
}

// NewRuleSet returns a RuleSet that accepts nothing. Every element is
// unknown and every attribute is dropped until rules are added.
func NewRuleSet() *RuleSet {
	return &RuleSet{
		acceptableElements:   map[string]bool{},
		acceptableAttributes: map[string]bool{},
		emptyElements:        map[string]bool{},
		unacceptableElements: map[string]bool{},
		acceptableSchemes:    map[string]bool{},
		rebaseTargets:        map[string]map[string]bool{},
	}
}

// DefaultRuleSet returns the rules used by New when no RuleSet is given:
// common inline and block formatting, lists, tables, links and images.
// Scripts, styles, frames, plugins and document-level elements are
// excised together with their content.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		acceptableElements: sliceToSet([]string{
			"a", "abbr", "acronym", "address", "area",
			"b", "bdo", "big", "blockquote", "br",
			"caption", "center", "cite", "code", "col", "colgroup",
			"dd", "del", "dfn", "dir", "div", "dl", "dt",
			"em", "font",
			"h1", "h2", "h3", "h4", "h5", "h6", "hr",
			"i", "img", "ins", "kbd", "label", "legend", "li",
			"map", "menu", "ol", "p", "pre", "q",
			"s", "samp", "small", "span", "strike", "strong", "sub", "sup",
			"table", "tbody", "td", "tfoot", "th", "thead", "tr", "tt",
			"u", "ul", "var",
		}),
		acceptableAttributes: sliceToSet([]string{
			"abbr", "align", "alt", "axis",
			"bgcolor", "border",
			"cellpadding", "cellspacing", "char", "charoff", "cite", "class",
			"clear", "color", "cols", "colspan", "compact", "coords",
			"datetime", "dir",
			"face", "frame",
			"headers", "height", "href", "hreflang", "hspace",
			"id", "lang", "longdesc",
			"name", "nohref", "noshade", "nowrap",
			"rel", "rev", "rows", "rowspan", "rules",
			"scope", "shape", "size", "span", "src", "start", "summary",
			"title", "type",
			"usemap", "valign", "value", "vspace",
			"width", "xml:lang",
		}),
		emptyElements: sliceToSet([]string{
			"area", "base", "basefont", "br", "col", "frame", "hr",
			"img", "input", "isindex", "link", "meta", "param",
		}),
		unacceptableElements: sliceToSet([]string{
			"applet", "base", "basefont", "embed", "frame", "frameset",
			"head", "iframe", "link", "meta", "noembed", "noframes",
			"noscript", "object", "param", "script", "style", "title",
			"xml",
		}),
		acceptableSchemes: sliceToSet([]string{"http", "https", "ftp", "mailto"}),
		rebaseTargets: map[string]map[string]bool{
			"a":          sliceToSet([]string{"href"}),
			"area":       sliceToSet([]string{"href"}),
			"blockquote": sliceToSet([]string{"cite"}),
			"del":        sliceToSet([]string{"cite"}),
			"img":        sliceToSet([]string{"src", "longdesc", "usemap"}),
			"ins":        sliceToSet([]string{"cite"}),
			"q":          sliceToSet([]string{"cite"}),
		},
	}
}

// StrictRuleSet returns rules allowing only basic inline formatting,
// paragraphs and lists, with no attributes at all.
func StrictRuleSet() *RuleSet {
	r := DefaultRuleSet()
	r.acceptableElements = sliceToSet([]string{
		"b", "i", "em", "strong", "br", "p", "ul", "ol", "li",
	})
	r.acceptableAttributes = map[string]bool{}
	r.acceptableSchemes = sliceToSet([]string{"https"})
	return r
}

// Clone returns a deep copy of r.
func (r *RuleSet) Clone() *RuleSet {
	c := &RuleSet{
		acceptableElements:   maps.Clone(r.acceptableElements),
		acceptableAttributes: maps.Clone(r.acceptableAttributes),
		emptyElements:        maps.Clone(r.emptyElements),
		unacceptableElements: maps.Clone(r.unacceptableElements),
		acceptableSchemes:    maps.Clone(r.acceptableSchemes),
		rebaseTargets:        make(map[string]map[string]bool, len(r.rebaseTargets)),
	}
	for el, attrs := range r.rebaseTargets {
		c.rebaseTargets[el] = maps.Clone(attrs)
	}
	return c
}

// IsAcceptableElement reports whether name is written to the output.
func (r *RuleSet) IsAcceptableElement(name string) bool {
	name = strings.ToLower(name)
	return r.acceptableElements[name] && !r.unacceptableElements[name]
}

// IsAcceptableAttribute reports whether attributes called name are kept.
func (r *RuleSet) IsAcceptableAttribute(name string) bool {
	return r.acceptableAttributes[strings.ToLower(name)]
}

// IsEmptyElement reports whether name is written in self-closed form
// (<br />) and never receives a close tag.
func (r *RuleSet) IsEmptyElement(name string) bool {
	return r.emptyElements[strings.ToLower(name)]
}

// IsUnacceptableElement reports whether name is excised together with
// everything nested inside it.
func (r *RuleSet) IsUnacceptableElement(name string) bool {
	return r.unacceptableElements[strings.ToLower(name)]
}

// IsAcceptableScheme reports whether URIs with scheme are kept.
func (r *RuleSet) IsAcceptableScheme(scheme string) bool {
	return r.acceptableSchemes[strings.ToLower(scheme)]
}

// RebaseAttributesFor returns the URI-bearing attributes of element name.
// The result is a copy.
func (r *RuleSet) RebaseAttributesFor(name string) []string {
	attrs := r.rebaseTargets[strings.ToLower(name)]
	out := make([]string, 0, len(attrs))
	for a := range attrs {
		out = append(out, a)
	}
	return out
}

func (r *RuleSet) isRebaseTarget(element, attr string) bool {
	return r.rebaseTargets[element][attr]
}

// AddAcceptableElement allows name and removes it from the unacceptable
// set.
func (r *RuleSet) AddAcceptableElement(names ...string) *RuleSet {
	for _, name := range names {
		name = strings.ToLower(name)
		r.acceptableElements[name] = true
		delete(r.unacceptableElements, name)
	}
	return r
}

// RemoveAcceptableElement makes name unknown: its tags are dropped but its
// content is kept.
func (r *RuleSet) RemoveAcceptableElement(names ...string) *RuleSet {
	for _, name := range names {
		delete(r.acceptableElements, strings.ToLower(name))
	}
	return r
}

// AddUnacceptableElement marks name for excision with its descendants and
// removes it from the acceptable set.
func (r *RuleSet) AddUnacceptableElement(names ...string) *RuleSet {
	for _, name := range names {
		name = strings.ToLower(name)
		r.unacceptableElements[name] = true
		delete(r.acceptableElements, name)
	}
	return r
}

// RemoveUnacceptableElement makes name unknown again unless it is also
// acceptable: its tags are dropped but its content is kept.
func (r *RuleSet) RemoveUnacceptableElement(names ...string) *RuleSet {
	for _, name := range names {
		delete(r.unacceptableElements, strings.ToLower(name))
	}
	return r
}

// AddAcceptableAttribute keeps attributes called name.
func (r *RuleSet) AddAcceptableAttribute(names ...string) *RuleSet {
	for _, name := range names {
		r.acceptableAttributes[strings.ToLower(name)] = true
	}
	return r
}

// RemoveAcceptableAttribute drops attributes called name.
func (r *RuleSet) RemoveAcceptableAttribute(names ...string) *RuleSet {
	for _, name := range names {
		delete(r.acceptableAttributes, strings.ToLower(name))
	}
	return r
}

// AddEmptyElement writes name in self-closed form.
func (r *RuleSet) AddEmptyElement(names ...string) *RuleSet {
	for _, name := range names {
		r.emptyElements[strings.ToLower(name)] = true
	}
	return r
}

// RemoveEmptyElement writes name with a separate close tag.
func (r *RuleSet) RemoveEmptyElement(names ...string) *RuleSet {
	for _, name := range names {
		delete(r.emptyElements, strings.ToLower(name))
	}
	return r
}

// AddAcceptableScheme allows URIs using scheme in rebase targets.
func (r *RuleSet) AddAcceptableScheme(schemes ...string) *RuleSet {
	for _, s := range schemes {
		r.acceptableSchemes[strings.ToLower(s)] = true
	}
	return r
}

// RemoveAcceptableScheme drops URIs using scheme from rebase targets.
func (r *RuleSet) RemoveAcceptableScheme(schemes ...string) *RuleSet {
	for _, s := range schemes {
		delete(r.acceptableSchemes, strings.ToLower(s))
	}
	return r
}

// AddRebaseTarget registers attrs of element as URIs resolved against the
// base URI and checked against the acceptable schemes.
func (r *RuleSet) AddRebaseTarget(element string, attrs ...string) *RuleSet {
	element = strings.ToLower(element)
	set, ok := r.rebaseTargets[element]
	if !ok {
		set = make(map[string]bool, len(attrs))
		r.rebaseTargets[element] = set
	}
	for _, a := range attrs {
		set[strings.ToLower(a)] = true
	}
	return r
}

// RemoveRebaseTarget stops treating attrs of element as URIs.
func (r *RuleSet) RemoveRebaseTarget(element string, attrs ...string) *RuleSet {
	element = strings.ToLower(element)
	set := r.rebaseTargets[element]
	for _, a := range attrs {
		delete(set, strings.ToLower(a))
	}
	if len(set) == 0 {
		delete(r.rebaseTargets, element)
	}
	return r
}

// schemeAllowed reports whether raw is a relative reference or uses one of
// the acceptable schemes. Control characters are stripped first so that
// "java\tscript:" is seen as "javascript:".
func (r *RuleSet) schemeAllowed(raw string) bool {
	cleaned := strings.Map(func(c rune) rune {
		if c < 0x20 || c == 0x7f {
			return -1
		}
		return c
	}, strings.TrimSpace(raw))

	var scheme string
	if u, err := url.Parse(cleaned); err == nil {
		scheme = u.Scheme
	} else {
		scheme = leadingScheme(cleaned)
	}
	if scheme == "" {
		return true
	}
	return r.IsAcceptableScheme(scheme)
}

// leadingScheme extracts the scheme of a reference url.Parse rejected.
func leadingScheme(s string) string {
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		case c == ':' && i > 0:
			return s[:i]
		default:
			return ""
		}
	}
	return ""
}

func sliceToSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[strings.ToLower(v)] = true
	}
	return m
}
