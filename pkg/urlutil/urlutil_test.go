package urlutil

import (
	"net/url"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing slash removed",
			input:    "http://localhost:3000/api/",
			expected: "http://localhost:3000/api",
		},
		{
			name:     "fragment and query removed",
			input:    "http://localhost:3000/api?debug=1#top",
			expected: "http://localhost:3000/api",
		},
		{
			name:     "scheme and host lowercased",
			input:    "HTTP://LOCALHOST:3000/api",
			expected: "http://localhost:3000/api",
		},
		{
			name:     "default http port removed",
			input:    "http://example.com:80/api",
			expected: "http://example.com/api",
		},
		{
			name:     "default https port removed",
			input:    "https://example.com:443/",
			expected: "https://example.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			if err != nil {
				t.Fatalf("failed to parse input URL: %v", err)
			}
			got := Canonicalize(*u)
			if got.String() != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got.String(), tt.expected)
			}

			again := Canonicalize(got)
			if again.String() != got.String() {
				t.Errorf("Canonicalize is not idempotent: %q != %q", again.String(), got.String())
			}
		})
	}
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		resource string
		query    url.Values
		expected string
	}{
		{
			name:     "bare host",
			base:     "http://localhost:3000",
			resource: "consents",
			expected: "http://localhost:3000/consents",
		},
		{
			name:     "base with path and trailing slash",
			base:     "http://localhost:3000/api/",
			resource: "/consents",
			expected: "http://localhost:3000/api/consents",
		},
		{
			name:     "with query",
			base:     "http://localhost:3000/api",
			resource: "consents",
			query:    url.Values{"page": {"3"}, "pageSize": {"2"}},
			expected: "http://localhost:3000/api/consents?page=3&pageSize=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.base)
			if err != nil {
				t.Fatalf("failed to parse base URL: %v", err)
			}
			got := Endpoint(*u, tt.resource, tt.query)
			if got.String() != tt.expected {
				t.Errorf("Endpoint() = %q, want %q", got.String(), tt.expected)
			}
		})
	}
}
