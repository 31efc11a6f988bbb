package engine

import (
	"strings"
)

// repoPrefixes are stripped from repository references so that pasted URLs
// work the same as "owner/name".
var repoPrefixes = []string{
	"https://github.com/",
	"http://github.com/",
	"git@github.com:",
	"github.com/",
}

// NormalizeRepo turns a repository reference into "owner/name" form where it
// can: surrounding whitespace and slashes, a github.com URL prefix and a
// trailing ".git" are removed. Anything else is passed through unchanged;
// the commit API rejects references it does not know.
func NormalizeRepo(ref string) string {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	for _, p := range repoPrefixes {
		if strings.HasPrefix(lower, p) {
			ref = ref[len(p):]
			break
		}
	}
	ref = strings.Trim(ref, "/")
	ref = strings.TrimSuffix(ref, ".git")

	// Drop extra path segments such as /tree/main
	parts := strings.Split(ref, "/")
	if len(parts) > 2 {
		ref = parts[0] + "/" + parts[1]
	}
	return ref
}
