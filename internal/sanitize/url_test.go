package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeURL_Valid(t *testing.T) {
	got, err := SanitizeURL("https://example.com/path?q=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path?q=1#frag", got)

	got, err = SanitizeURL("  https://example.com  ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)

	got, err = SanitizeURL("http://llmstxt.example.org/llms.txt")
	require.NoError(t, err)
	assert.Equal(t, "http://llmstxt.example.org/llms.txt", got)
}

func TestSanitizeURL_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		got, err := SanitizeURL(in)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	}
}

func TestSanitizeURL_DangerousProtocols(t *testing.T) {
	inputs := []string{
		"javascript:alert(1)",
		"JavaScript:alert(1)",
		"data:text/html,<script>alert(1)</script>",
		"DATA:text/html;base64,PHNjcmlwdD4=",
		"vbscript:msgbox",
		"VBScript:MsgBox",
		"file:///etc/passwd",
		"FILE:///etc/passwd",
	}
	for _, in := range inputs {
		_, err := SanitizeURL(in)
		assert.Error(t, err, in)
	}
}

func TestSanitizeURL_ProtocolHiddenInValidURL(t *testing.T) {
	_, err := SanitizeURL("https://example.com/?next=JavaScript:alert(1)")
	assert.ErrorIs(t, err, ErrInvalidProtocol)
}

func TestSanitizeURL_InvalidFormat(t *testing.T) {
	for _, in := range []string{"example.com", "ftp://example.com/file", "not a url", "https://"} {
		_, err := SanitizeURL(in)
		assert.ErrorIs(t, err, ErrInvalidURL, in)
	}
}
