package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/arwiki/internal/cli"
)

func TestRun_Help(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"--help"}, out, errOut)
	assert.Equal(t, cli.ExitSuccess, code)
	assert.Contains(t, out.String(), "pages")
}

func TestRun_InvalidFormat(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"keygen", "--out", t.TempDir() + "/k.yaml", "--format", "xml"}, out, errOut)
	assert.Equal(t, cli.ExitCommandError, code)
	assert.Contains(t, errOut.String(), "invalid format")
}
