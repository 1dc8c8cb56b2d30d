package client

import (
	"regexp"
	"strconv"
)

// idPattern matches "/<collection>/<digits>/", e.g. "/pokemon/25/".
var idPattern = regexp.MustCompile(`/[A-Za-z][A-Za-z0-9_-]*/(\d+)/`)

// ParseID extracts the numeric id from a canonical resource URL.
func ParseID(resourceURL string) (int, bool) {
	m := idPattern.FindStringSubmatch(resourceURL)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// ExtractID returns the numeric id embedded in a resource URL, or 0 if none.
// 0 is never a valid id; callers that need to tell the difference use ParseID.
func ExtractID(resourceURL string) int {
	id, _ := ParseID(resourceURL)
	return id
}
