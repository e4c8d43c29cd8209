package entity

import (
	"regexp"
	"strings"
)

var trailingDigits = regexp.MustCompile(`\d+$`)

// FixReleaseURL repairs the malformed release links WUD emits for some
// pre-release tags. Two cases, checked in order:
//
//  1. link ends with the literal "undefined": the trailing digit run of tag
//     replaces every "undefined" occurrence.
//  2. link ends with ".": the trailing digit run of tag is appended.
//
// When tag has no trailing digits, or the link matches neither suffix, the
// link passes through untouched. The function is pure and idempotent on
// links it does not change.
func FixReleaseURL(link, tag string) string {
	if link == "" {
		return link
	}

	switch {
	case strings.HasSuffix(link, "undefined"):
		if digits := trailingDigits.FindString(tag); digits != "" {
			return strings.ReplaceAll(link, "undefined", digits)
		}
	case strings.HasSuffix(link, "."):
		if digits := trailingDigits.FindString(tag); digits != "" {
			return link + digits
		}
	}

	return link
}
