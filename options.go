package xhtmlsafe

import "log/slog"

// Config is assembled from Options by New.
type Config struct {
	// BaseURI is the absolute URI relative links are resolved against.
	// Empty or relative values disable rebasing.
	BaseURI string

	// Tidy enables the normalizer post-pass. When Normalizer is nil a
	// TidyNormalizer is used.
	Tidy       bool
	Normalizer Normalizer

	// TrimWhitespace removes whitespace directly after '<' in the input
	// ("< p>" becomes "<p>") and trailing whitespace from the output.
	TrimWhitespace bool

	// Rules defaults to DefaultRuleSet.
	Rules *RuleSet
	Hooks Hooks

	// Logger receives debug records of sanitizer decisions. Nothing is
	// logged by default.
	Logger *slog.Logger
}

// Option configures a Sanitizer.
type Option func(*Config)

// WithBaseURI sets the absolute URI relative links are resolved against.
func WithBaseURI(uri string) Option {
	return func(c *Config) { c.BaseURI = uri }
}

// WithTidy switches the normalizer post-pass on or off.
func WithTidy(enabled bool) Option {
	return func(c *Config) { c.Tidy = enabled }
}

// WithNormalizer enables the post-pass with n instead of TidyNormalizer.
func WithNormalizer(n Normalizer) Option {
	return func(c *Config) {
		c.Normalizer = n
		c.Tidy = n != nil
	}
}

// WithTrimWhitespace turns whitespace trimming on or off. The input
// pre-pass only rewrites "< name" when a tag clearly follows: the name is
// followed by ">" or "/>", or by attributes containing '='. Plain text such
// as "a < b and c > d" is left alone and encoded. "a < b > c" still reads
// as a tag.
func WithTrimWhitespace(enabled bool) Option {
	return func(c *Config) { c.TrimWhitespace = enabled }
}

// WithRuleSet makes the Sanitizer use r directly. Later mutations of r are
// seen by subsequent Clean calls.
func WithRuleSet(r *RuleSet) Option {
	return func(c *Config) { c.Rules = r }
}

// WithHooks installs all four hooks at once.
func WithHooks(h Hooks) Option {
	return func(c *Config) { c.Hooks = h }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
