package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		err   string
	}{
		{"good_name-1", true, ""},
		{"abc", true, ""},
		{strings.Repeat("a", 30), true, ""},
		{"", false, "Username is required"},
		{"   ", false, "Username cannot be empty"},
		{"<script>x</script>", false, "Username cannot be empty"},
		{"ab", false, "Username must be at least 3 characters"},
		{strings.Repeat("a", 31), false, "Username must be 30 characters or less"},
		{"bad name", false, "Username can only contain letters, numbers, underscores, and hyphens"},
		{"ñandú", false, "Username can only contain letters, numbers, underscores, and hyphens"},
		{"admin", false, "Username is reserved"},
		{"ADMIN", false, "Username is reserved"},
		{"Support", false, "Username is reserved"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			res := ValidateUsername(tc.in)
			assert.Equal(t, tc.valid, res.Valid)
			assert.Equal(t, tc.err, res.Error)
		})
	}
}
