package submission

import (
	"context"
	"strings"
	"testing"

	dto "github.com/dropDatabas3/hubguard/internal/http/dto/submission"
	"github.com/dropDatabas3/hubguard/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	out, err := svc.Sanitize(ctx, dto.Request{
		Name:        "  <b>llms</b>.txt hub<script>alert(1)</script> ",
		Description: "Docs <img src=x onerror=alert(1)>for LLMs",
		Website:     "  https://llmstxthub.com  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "<b>llms</b>.txt hub", out.Name)
	assert.Equal(t, "Docs for LLMs", out.Description)
	assert.Equal(t, "https://llmstxthub.com", out.Website)

	out, err = svc.Sanitize(ctx, dto.Request{Name: "x"})
	require.NoError(t, err)
	assert.Empty(t, out.Website)
}

func TestSanitize_Errors(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	_, err := svc.Sanitize(ctx, dto.Request{Name: "<script>x</script>"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Sanitize(ctx, dto.Request{Name: "ok", Website: "javascript:alert(1)"})
	assert.Error(t, err)

	_, err = svc.Sanitize(ctx, dto.Request{Name: "ok", Website: "not a url"})
	assert.ErrorIs(t, err, sanitize.ErrInvalidURL)
}

func TestSanitize_PunctuationKeptAndCounted(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	out, err := svc.Sanitize(ctx, dto.Request{
		Name:        `O'Reilly & "Sons"`,
		Description: "Q&A: it's \"fast\"",
	})
	require.NoError(t, err)
	assert.Equal(t, `O'Reilly & "Sons"`, out.Name)
	assert.Equal(t, `Q&A: it's "fast"`, out.Description)

	// el largo se mide sobre el texto, no sobre entidades
	out, err = svc.Sanitize(ctx, dto.Request{Name: strings.Repeat("&", 30)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("&", 30), out.Name)
}
