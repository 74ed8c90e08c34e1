package xhtmlsafe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidBaseURI is returned by New when the base URI cannot be parsed.
var ErrInvalidBaseURI = errors.New("invalid base URI")

var (
	cdataOpen  = []byte("<![CDATA[")
	cdataClose = []byte("]]>")

	tagWhitespace = regexp.MustCompile(`<\s*(/?)\s*([A-Za-z][\w:-]*)(\s*/?>|\s[^<>]*=[^<>]*>)`)
)

// Sanitizer cleans HTML fragments according to its RuleSet and Hooks.
//
// Clean may be called concurrently. Changing the rules or hooks while a
// Clean call is running is not safe.
type Sanitizer struct {
	rules      *RuleSet
	hooks      Hooks
	base       *url.URL
	normalizer Normalizer
	trim       bool
	logger     *slog.Logger
}

// New returns a Sanitizer configured by opts. It fails only when the base
// URI cannot be parsed.
func New(opts ...Option) (*Sanitizer, error) {
	var c Config
	for _, fn := range opts {
		fn(&c)
	}

	s := &Sanitizer{
		rules:  c.Rules,
		hooks:  c.Hooks,
		trim:   c.TrimWhitespace,
		logger: c.Logger,
	}
	if s.rules == nil {
		s.rules = DefaultRuleSet()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	if c.Tidy {
		s.normalizer = c.Normalizer
		if s.normalizer == nil {
			s.normalizer = TidyNormalizer{}
		}
	}

	if raw := strings.TrimSpace(c.BaseURI); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("xhtmlsafe: %w %q: %w", ErrInvalidBaseURI, raw, err)
		}
		if u.IsAbs() {
			s.base = u
		}
	}
	return s, nil
}

// Sanitize cleans fragment with a Sanitizer built from opts.
func Sanitize(fragment string, opts ...Option) (string, error) {
	s, err := New(opts...)
	if err != nil {
		return "", err
	}
	return s.Clean(fragment), nil
}

var stripper = func() *Sanitizer {
	rules := DefaultRuleSet()
	clear(rules.acceptableElements)
	s, _ := New(WithRuleSet(rules))
	return s
}()

// StripTags removes every tag from s. Content of unacceptable elements
// such as script and style is removed too. The remaining text is
// entity-encoded.
func StripTags(s string) string {
	return stripper.Clean(s)
}

// Rules returns the live RuleSet of s.
func (s *Sanitizer) Rules() *RuleSet { return s.rules }

// BaseURI returns the URI used for rebasing, or "" when rebasing is off.
func (s *Sanitizer) BaseURI() string {
	if s.base == nil {
		return ""
	}
	return s.base.String()
}

// Clean returns the sanitized form of fragment. Malformed markup never
// causes an error; the tokenizer's reading of it is taken as is.
func (s *Sanitizer) Clean(fragment string) string {
	if s.trim {
		fragment = tagWhitespace.ReplaceAllString(fragment, "<$1$2$3")
	}

	r := &run{s: s, state: &suppressionState{}}
	r.feed(fragment)
	r.finish()
	return s.assemble(r.fragments)
}

// CleanReader reads all of rd and cleans it. Only read errors are
// returned.
func (s *Sanitizer) CleanReader(rd io.Reader) (string, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("xhtmlsafe: read fragment: %w", err)
	}
	return s.Clean(string(b)), nil
}

// run is the state of one Clean call. A marked section is sanitized by a
// nested run sharing the suppression state but with its own fragments.
type run struct {
	s         *Sanitizer
	state     *suppressionState
	fragments []string
}

func (r *run) emit(fragment string) {
	r.fragments = append(r.fragments, fragment)
}

func (r *run) feed(src string) {
	z := html.NewTokenizer(strings.NewReader(src))
	z.AllowCDATA(true)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				r.s.logger.Debug("tokenizer stopped early", slog.Any("error", err))
			}
			return

		case html.TextToken:
			if raw := z.Raw(); bytes.HasPrefix(raw, cdataOpen) {
				body := bytes.TrimSuffix(raw[len(cdataOpen):], cdataClose)
				r.markedSection(string(body))
				continue
			}
			r.text(string(z.Text()))

		case html.StartTagToken:
			t := z.Token()
			r.openTag(t.Data, t.Attr, false)

		case html.SelfClosingTagToken:
			t := z.Token()
			r.openTag(t.Data, t.Attr, true)

		case html.EndTagToken:
			t := z.Token()
			r.closeTag(t.Data)

		default:
			// comments and doctypes
		}
	}
}

func (r *run) openTag(name string, attrs []html.Attribute, selfClosing bool) {
	s := r.s
	r.ordinaryTag()

	if r.state.suppressed() {
		if s.rules.IsUnacceptableElement(name) && s.excisesContent(name, selfClosing) {
			r.state.open()
		}
		return
	}

	if !s.hooks.tagOpen(s, &name, &attrs) {
		s.logger.Debug("open tag vetoed", slog.String("tag", name))
		return
	}
	name = strings.ToLower(name)

	switch {
	case s.rules.IsAcceptableElement(name):
		empty := s.rules.IsEmptyElement(name)
		r.emit(s.renderOpenTag(name, attrs, empty))
		if selfClosing && !empty {
			r.closeTag(name)
		}
	case s.rules.IsUnacceptableElement(name):
		if !s.excisesContent(name, selfClosing) {
			s.logger.Debug("dropping void element", slog.String("tag", name))
			return
		}
		s.logger.Debug("excising element", slog.String("tag", name))
		r.state.open()
	}
}

// rawTextElements are read by the tokenizer as raw text up to their close
// tag, even when the open tag is written self-closed.
var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "textarea": true,
	"title": true, "xmp": true,
}

// isVoid reports whether name never has content, either by the rules or
// by HTML.
func (s *Sanitizer) isVoid(name string) bool {
	name = strings.ToLower(name)
	return s.rules.IsEmptyElement(name) || isVoidElement(atom.Lookup([]byte(name)))
}

// excisesContent reports whether an open tag of the unacceptable element
// name starts a suppressed region. Void and self-closed elements have no
// content and no close tag to balance the counter, so they are dropped on
// their own.
func (s *Sanitizer) excisesContent(name string, selfClosing bool) bool {
	if s.isVoid(name) {
		return false
	}
	return !selfClosing || rawTextElements[strings.ToLower(name)]
}

func (r *run) closeTag(name string) {
	s := r.s
	r.ordinaryTag()

	if r.state.suppressed() {
		if s.rules.IsUnacceptableElement(name) && !s.isVoid(name) {
			r.state.close()
		}
		return
	}

	if !s.hooks.tagClose(s, &name) {
		s.logger.Debug("close tag vetoed", slog.String("tag", name))
		return
	}
	name = strings.ToLower(name)

	switch {
	case s.rules.IsAcceptableElement(name):
		if !s.rules.IsEmptyElement(name) {
			r.emit("</" + name + ">")
		}
	case s.rules.IsUnacceptableElement(name):
		if !s.isVoid(name) {
			r.state.close()
		}
	}
}

func (r *run) text(t string) {
	if r.state.suppressed() {
		return
	}
	if !r.s.hooks.text(r.s, &t, false) {
		return
	}
	if t != "" {
		r.emit(html.EscapeString(t))
	}
}

// markedSection re-sanitizes the body of a CDATA section under the local
// suppression counter and merges the accepted fragments.
func (r *run) markedSection(body string) {
	s := r.s
	if r.state.suppressed() {
		return
	}
	if !s.hooks.text(s, &body, true) {
		return
	}

	restore := r.state.enterMarked()
	sub := &run{s: s, state: r.state}
	sub.feed(body)
	restore()

	r.fragments = append(r.fragments, sub.fragments...)
}

func (r *run) ordinaryTag() {
	if r.state.ordinaryTag() {
		r.s.logger.Debug("discarding suppression left open by marked section")
	}
}

func (r *run) finish() {
	if r.state.pending() {
		r.s.logger.Debug("run ended with pending suppression",
			slog.Int("outer", int(r.state.outer)),
			slog.Int("local", int(r.state.local)),
		)
	}
	*r.state = suppressionState{}
}

// renderOpenTag writes an accepted open tag keeping only acceptable
// attributes. URI attributes are checked against the acceptable schemes
// and resolved against the base URI.
func (s *Sanitizer) renderOpenTag(name string, attrs []html.Attribute, empty bool) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(name)

	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if seen[key] {
			continue
		}
		seen[key] = true
		if !s.rules.IsAcceptableAttribute(key) {
			continue
		}

		val := a.Val
		if s.rules.isRebaseTarget(name, key) {
			if !s.rules.schemeAllowed(val) {
				s.logger.Debug("dropping URI with disallowed scheme",
					slog.String("tag", name), slog.String("attr", key))
				continue
			}
			val = s.rebase(val)
		}

		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(val))
		sb.WriteByte('"')
	}

	if empty {
		sb.WriteString(" />")
	} else {
		sb.WriteByte('>')
	}
	return sb.String()
}

// rebase resolves raw against the base URI. Values that do not parse are
// returned unchanged.
func (s *Sanitizer) rebase(raw string) string {
	if s.base == nil {
		return raw
	}
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		s.logger.Debug("leaving unparsable URI as is",
			slog.String("uri", raw), slog.Any("error", err))
		return raw
	}
	return s.base.ResolveReference(ref).String()
}
