package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Stdin(t *testing.T) {
	got, err := execute(t, `<p onclick="x">hi<script>bad()</script></p>`)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>\n", got)
}

func TestRootCmd_Files(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.html")
	second := filepath.Join(dir, "second.html")
	require.NoError(t, os.WriteFile(first, []byte(`<a href="a.html">a</a>`), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(`<p>b`), 0o600))

	got, err := execute(t, "", "--base-uri", "https://example.com/x/", "--tidy", first, second)
	require.NoError(t, err)
	assert.Equal(t, "<a href=\"https://example.com/x/a.html\">a</a>\n<p>b</p>\n", got)
}

func TestRootCmd_RuleFlags(t *testing.T) {
	got, err := execute(t, `<iframe src="v.html">x</iframe><b>y</b>`,
		"--allow", "iframe", "--allow-attr", "src", "--deny", "b")
	require.NoError(t, err)
	assert.Equal(t, "<iframe src=\"v.html\">x</iframe>\n", got)
}

func TestRootCmd_Trim(t *testing.T) {
	got, err := execute(t, "< b>x</ b>   ", "--trim")
	require.NoError(t, err)
	assert.Equal(t, "<b>x</b>\n", got)
}

func TestRootCmd_Errors(t *testing.T) {
	_, err := execute(t, "", "--base-uri", "http://[::1")
	require.Error(t, err)

	_, err = execute(t, "", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
}
