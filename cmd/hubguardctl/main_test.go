package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToken(t *testing.T) {
	out, err := run(t, "token", "--meta")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 64)
	assert.Contains(t, lines[1], `<meta name="csrf-token" content="`+lines[0]+`">`)
}

func TestToken_JSON(t *testing.T) {
	out, err := run(t, "--out", "json", "token")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Len(t, v["csrf_token"], 64)
}

func TestSanitize(t *testing.T) {
	out, err := run(t, "sanitize", "url", "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a\n", out)

	_, err = run(t, "sanitize", "url", "javascript:alert(1)")
	assert.Error(t, err)

	out, err = run(t, "sanitize", "text", "<script>alert(1)</script>hola")
	require.NoError(t, err)
	assert.Equal(t, "hola\n", out)

	out, err = run(t, "sanitize", "html", "<b>")
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;\n", out)
}

func TestUsername(t *testing.T) {
	out, err := run(t, "username", "john_doe")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	out, err = run(t, "username", "ab")
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, "Username must be at least 3 characters\n", out)
}

func TestErrmsg(t *testing.T) {
	out, err := run(t, "errmsg", "dial tcp: connection refused")
	require.NoError(t, err)
	assert.Equal(t, "Service temporarily unavailable\n", out)
}

func TestBadOutFormat(t *testing.T) {
	_, err := run(t, "--out", "xml", "token")
	assert.Error(t, err)
}
