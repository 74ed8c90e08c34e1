// Package xhtmlsafe sanitizes untrusted HTML fragments (comments, feed
// entries, short snippets) into a restricted, well-formed subset of XHTML
// that is safe to display again.
//
// # Overview
//
// xhtmlsafe drives the golang.org/x/net/html tokenizer over a fragment and
// decides for every token whether it reaches the output. It never builds a
// tree; the decisions are made in document order as the tokens arrive.
//
// # Rules
//
// A [RuleSet] holds the tables consulted for every token:
//   - acceptable elements are written out, with their attributes filtered
//     down to the acceptable attributes
//   - unacceptable elements (script, style, iframe, object...) are removed
//     together with everything nested inside them, including further
//     unacceptable elements. Void ones such as meta, link and embed have
//     no content and are dropped alone
//   - any other element is unknown: its tags are dropped but its content
//     is kept
//   - empty elements are written in self-closed form, so <br>, <br/> and
//     <br></br> all become <br />
//
// URI attributes listed as rebase targets (a.href, img.src...) are checked
// against the acceptable schemes and resolved against the base URI given
// to [New] with [WithBaseURI]. A relative or empty base URI disables
// rebasing.
//
// Two presets are provided: [DefaultRuleSet] and [StrictRuleSet].
//
// # Marked sections
//
// The body of a <![CDATA[...]]> section is parsed again and sanitized with
// its own suppression counter, so an unterminated <script> inside a
// section cannot hide the markup that follows it.
//
// # Hooks
//
// [Hooks] lets the caller observe or veto open tags, close tags, text and
// the final fragment list. Returning false from a hook drops the token.
//
// # Tidy
//
// [WithTidy] passes the accepted markup through [TidyNormalizer], which
// closes unclosed tags and repairs misnesting. Any [Normalizer] can be
// plugged in with [WithNormalizer].
//
// # Thread Safety
//
// [Sanitizer.Clean] keeps all of its state on the call stack and is safe
// for concurrent use. Rules and hooks must not be changed while a Clean
// call is running.
//
// # Example
//
//	s, err := xhtmlsafe.New(xhtmlsafe.WithBaseURI("https://example.com/"))
//	if err != nil {
//		return err
//	}
//	clean := s.Clean(userInput)
package xhtmlsafe
