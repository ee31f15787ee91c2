package sanitizer

import (
	"net/url"
	"path"
	"strings"
)

// StaticPrefix is where the backend serves generated artifacts
const StaticPrefix = "/static/"

// ArtifactPath cleans a generated file name returned by the backend.
// Returns the cleaned name and false when the name is unusable as a path under /static/.
func ArtifactPath(name string) (string, bool) {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return "", false
	}

	// Backslashes and absolute paths never come from a well behaved backend
	if strings.ContainsAny(cleaned, "\\\x00") || strings.HasPrefix(cleaned, "/") {
		return "", false
	}

	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return "", false
		}
	}

	cleaned = path.Clean(cleaned)
	if cleaned == "." {
		return "", false
	}

	return cleaned, true
}

// ArtifactURL builds the /static/ link for a generated file
func ArtifactURL(name string) (string, bool) {
	cleaned, ok := ArtifactPath(name)
	if !ok {
		return "", false
	}

	segments := strings.Split(cleaned, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return StaticPrefix + strings.Join(segments, "/"), true
}
