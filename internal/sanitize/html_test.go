package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeHTML_SafeInputUnchanged(t *testing.T) {
	assert.Equal(t, "Hello World", EscapeHTML("Hello World"))
}

func TestEscapeHTML_XSS(t *testing.T) {
	out := EscapeHTML(`<script>alert("xss")</script>`)
	assert.Contains(t, out, "&lt;")
	assert.Contains(t, out, "&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, "&lt;script&gt;alert(&quot;xss&quot;)&lt;&#x2F;script&gt;", out)
}

func TestEscapeHTML_ScriptCloseAnyCase(t *testing.T) {
	assert.Equal(t, "&lt;&#x2F;SCRIPT&gt;", EscapeHTML("</SCRIPT>"))
	assert.Equal(t, "a &amp; b &#x27;c&#x27;", EscapeHTML("a & b 'c'"))
}

func TestEscapeValue(t *testing.T) {
	assert.Equal(t, "42", EscapeValue(42))
	assert.Equal(t, "1.5", EscapeValue(1.5))
	assert.Equal(t, "-8", EscapeValue(int8(-8)))
	assert.Equal(t, "16", EscapeValue(int16(16)))
	assert.Equal(t, "255", EscapeValue(uint8(255)))
	assert.Equal(t, "65535", EscapeValue(uint16(65535)))
	assert.Equal(t, "7", EscapeValue(uint32(7)))
	assert.Equal(t, "&lt;b&gt;", EscapeValue("<b>"))
	assert.Equal(t, "", EscapeValue(nil))
	assert.Equal(t, "", EscapeValue(struct{}{}))
	assert.Equal(t, "", EscapeValue([]string{"x"}))
}

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello", "Hello"},
		{"strips_block_tags", "<p>Hello <strong>world</strong></p>", "Hello <strong>world</strong>"},
		{"drops_script_content", "<script>alert(1)</script>Hi", "Hi"},
		{"drops_style_and_iframe", `<style>body{color:red}</style><iframe src="https://x">inner</iframe>ok`, "ok"},
		{"drops_event_handlers", `<strong onclick="steal()">bold</strong>`, "<strong>bold</strong>"},
		{"drops_disallowed_tag_with_handler", `<img src=x onerror="alert(1)">Hi`, "Hi"},
		{"keeps_inner_newlines", "  line1\nline2  ", "line1\nline2"},
		{"removes_zero_width", "a\u200bb\u200cc\u200dd\ufeff", "abcd"},
		{"keeps_punctuation", `O'Reilly & "Sons"`, `O'Reilly & "Sons"`},
		{"entities_decoded_once", "&lt;b&gt; &amp; &#39;", "&lt;b&gt; & '"},
		{"bare_angle_stays_escaped", "a < b", "a &lt; b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Text(tc.in))
		})
	}
}

func TestSanitizeText_Nil(t *testing.T) {
	assert.Nil(t, SanitizeText(nil))

	in := " <em>hey</em> "
	out := SanitizeText(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "<em>hey</em>", *out)
	}
}

func TestText_NoActiveContentSurvives(t *testing.T) {
	payloads := []string{
		`<object data="x.swf"></object>`,
		`<embed src="x.swf">`,
		`<a href="javascript:alert(1)">x</a>`,
		`<svg onload=alert(1)>`,
	}
	for _, p := range payloads {
		out := strings.ToLower(Text(p))
		assert.NotContains(t, out, "javascript:", p)
		assert.NotContains(t, out, "onload", p)
		assert.NotContains(t, out, "<object", p)
		assert.NotContains(t, out, "<embed", p)
	}
}
