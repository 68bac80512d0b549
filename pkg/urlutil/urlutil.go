package urlutil

import (
	"net/url"
	"strings"
)

// Canonicalize applies a deterministic normalization to a base URL.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Query parameters are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//
// Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(sourceUrl url.URL) url.URL {
	canonical := sourceUrl

	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}
	canonical.RawPath = ""

	canonical.Fragment = ""
	canonical.RawFragment = ""

	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// Endpoint joins a resource path onto a canonical base URL and attaches the
// given query. The base is not mutated.
func Endpoint(base url.URL, resource string, query url.Values) url.URL {
	endpoint := Canonicalize(base)

	basePath := stripTrailingSlash(endpoint.Path)
	if basePath == "/" {
		basePath = ""
	}
	endpoint.Path = basePath + "/" + strings.TrimLeft(resource, "/")

	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
