// Package commands implements the xhtmlsafe command line.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/njchilds90/xhtmlsafe"
)

type rootOptions struct {
	baseURI   string
	tidy      bool
	indent    bool
	trim      bool
	debug     bool
	allow     []string
	deny      []string
	allowAttr []string
}

// NewRootCmd returns the xhtmlsafe command.
func NewRootCmd() *cobra.Command {
	var o rootOptions

	cmd := &cobra.Command{
		Use:   "xhtmlsafe [file...]",
		Short: "Sanitize untrusted HTML fragments into safe XHTML",
		Long: `xhtmlsafe reads HTML fragments from the given files, or from stdin
when no file is given, and writes the sanitized XHTML to stdout.

Examples:
  # Clean a comment and resolve its links
  xhtmlsafe --base-uri https://example.com/post/ comment.html

  # Close unclosed tags and indent the result
  echo '<p>hello <b>world' | xhtmlsafe --tidy --indent

  # Also allow <iframe>, which is excised by default
  xhtmlsafe --allow iframe --allow-attr src feed.html`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.baseURI, "base-uri", "", "absolute URI relative links are resolved against")
	f.BoolVar(&o.tidy, "tidy", false, "close unclosed tags and repair misnesting")
	f.BoolVar(&o.indent, "indent", false, "indent the tidied output (implies --tidy)")
	f.BoolVar(&o.trim, "trim", false, "trim whitespace after '<' and at the end of the output")
	f.BoolVar(&o.debug, "debug", false, "log sanitizer decisions to stderr")
	f.StringSliceVar(&o.allow, "allow", nil, "extra acceptable elements")
	f.StringSliceVar(&o.deny, "deny", nil, "extra elements excised with their content")
	f.StringSliceVar(&o.allowAttr, "allow-attr", nil, "extra acceptable attributes")
	return cmd
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	s, err := o.sanitizer(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		clean, err := s.CleanReader(cmd.InOrStdin())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, clean)
		return err
	}

	// Files are cleaned in parallel and written in argument order.
	results := make([]string, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		g.Go(func() error {
			clean, err := cleanFile(s, name)
			results[i] = clean
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, clean := range results {
		if _, err := fmt.Fprintln(out, clean); err != nil {
			return err
		}
	}
	return nil
}

func (o *rootOptions) sanitizer(logOut io.Writer) (*xhtmlsafe.Sanitizer, error) {
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	rules := xhtmlsafe.DefaultRuleSet().
		AddAcceptableElement(o.allow...).
		AddUnacceptableElement(o.deny...).
		AddAcceptableAttribute(o.allowAttr...)

	opts := []xhtmlsafe.Option{
		xhtmlsafe.WithBaseURI(o.baseURI),
		xhtmlsafe.WithTrimWhitespace(o.trim),
		xhtmlsafe.WithRuleSet(rules),
		xhtmlsafe.WithLogger(logger),
	}
	if o.tidy || o.indent {
		opts = append(opts, xhtmlsafe.WithNormalizer(xhtmlsafe.TidyNormalizer{Indent: o.indent}))
	}
	return xhtmlsafe.New(opts...)
}

func cleanFile(s *xhtmlsafe.Sanitizer, name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return s.CleanReader(f)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
