package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLinkInput_URL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://example.com/x", false},
		{"valid http with path", "http://example.com/a/b?c=d", false},
		{"empty", "", true},
		{"no scheme", "example.com/x", true},
		{"scheme only", "https://", true},
		{"relative path", "/just/a/path", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := ValidateLinkInput(tt.url, "", false)
			if tt.wantErr {
				require.NotNil(t, ve)
				assert.NotEmpty(t, ve.Fields["url"])
			} else {
				assert.Nil(t, ve)
			}
		})
	}
}

func TestValidateLinkInput_ShortCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"too short", "ab", true},
		{"invalid alphabet", "has space", true},
		{"valid with dash and underscore", "my-link_1", false},
		{"minimum length", "abc", false},
		{"maximum length", "a1234567890123456789", false},
		{"too long", "a12345678901234567890", true},
		{"dot not allowed", "a.b.c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := ValidateLinkInput("https://example.com", tt.code, false)
			if tt.wantErr {
				require.NotNil(t, ve)
				assert.NotEmpty(t, ve.Fields["short_code"])
			} else {
				assert.Nil(t, ve)
			}
		})
	}
}

func TestValidateLinkInput_CodeRequiredOnUpdate(t *testing.T) {
	ve := ValidateLinkInput("https://example.com", "", true)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields["short_code"], "short code is required")

	assert.Nil(t, ValidateLinkInput("https://example.com", "mycode", true))
}

func TestValidateLinkInput_ReportsAllFields(t *testing.T) {
	ve := ValidateLinkInput("not a url", "!!", false)
	require.NotNil(t, ve)
	assert.NotEmpty(t, ve.Fields["url"])
	assert.NotEmpty(t, ve.Fields["short_code"])
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "https://example.com", SanitizeInput("  https://example.com\x00 "))
	assert.Equal(t, "abc", SanitizeInput("\x01abc\x02"))
}
