package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBase(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "strips www and query",
			url:  "https://www.youtube.com/watch?v=abc",
			want: "youtube",
		},
		{
			name: "plain host",
			url:  "https://github.com/user/repo",
			want: "github",
		},
		{
			name: "first label only",
			url:  "https://api.staging.example.org",
			want: "api",
		},
		{
			name: "lowercases",
			url:  "https://GitHub.com",
			want: "github",
		},
		{
			name: "drops characters outside a-z0-9",
			url:  "https://my-site.com",
			want: "mysite",
		},
		{
			name: "truncates to ten characters",
			url:  "https://verylongsubdomainname.com",
			want: "verylongsu",
		},
		{
			name: "digits survive",
			url:  "https://4chan.org",
			want: "4chan",
		},
		{
			name: "empty after cleanup falls back to link",
			url:  "https://---.com",
			want: "link",
		},
		{
			name: "port is not part of the host label",
			url:  "http://localhost:8080/foo",
			want: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveBase(tt.url))
		})
	}
}
