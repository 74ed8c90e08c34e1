package xhtmlsafe

import (
	"log/slog"
	"strings"
	"unicode"
)

// Normalizer is an optional post-pass over the assembled output, such as
// closing unclosed tags. It only ever sees markup the engine accepted.
type Normalizer interface {
	Normalize(fragment string) (string, error)
}

// NormalizerFunc adapts a plain function to Normalizer.
type NormalizerFunc func(fragment string) (string, error)

// Normalize calls f.
func (f NormalizerFunc) Normalize(fragment string) (string, error) {
	return f(fragment)
}

// assemble joins the accepted fragments of a run into the final string.
func (s *Sanitizer) assemble(fragments []string) string {
	if !s.hooks.output(s, &fragments) {
		s.logger.Debug("output vetoed")
		return ""
	}

	out := strings.Join(fragments, "")
	if s.normalizer != nil {
		normalized, err := s.normalizer.Normalize(out)
		if err != nil {
			s.logger.Debug("normalizer failed, keeping raw output", slog.Any("error", err))
		} else {
			out = normalized
		}
	}

	if s.trim {
		out = strings.TrimRightFunc(out, unicode.IsSpace)
	}
	return out
}
