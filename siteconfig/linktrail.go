package siteconfig

import (
	"slices"
	"strings"
)

const (
	linkTrailPrefix = "/^(["
	// MediaWiki emits the Unicode variant for sites whose trail holds
	// non-ASCII letters; the class is read the same way either way.
	linkTrailSuffix        = "]+)(.*)$/sD"
	linkTrailSuffixUnicode = "]+)(.*)$/sDu"

	asciiLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// ParseLinkTrail extracts the characters a link trail regex accepts.
// Only the two templates MediaWiki ships are recognized, and "a-z" is the only
// range understood; any other "-" is rejected. The result is sorted by code
// point with duplicates removed.
func ParseLinkTrail(raw string) (string, error) {
	class, ok := linkTrailClass(raw)
	if !ok {
		return "", invalid(ErrLinkTrail, raw)
	}
	class = strings.ReplaceAll(class, "a-z", asciiLetters)
	if strings.Contains(class, "-") {
		return "", invalid(ErrLinkTrail, raw)
	}
	return sortedUniqueRunes(class), nil
}

func linkTrailClass(raw string) (string, bool) {
	rest, ok := strings.CutPrefix(raw, linkTrailPrefix)
	if !ok {
		return "", false
	}
	if class, ok := strings.CutSuffix(rest, linkTrailSuffix); ok {
		return class, true
	}
	if class, ok := strings.CutSuffix(rest, linkTrailSuffixUnicode); ok {
		return class, true
	}
	return "", false
}

func sortedUniqueRunes(s string) string {
	runes := []rune(s)
	slices.Sort(runes)
	return string(slices.Compact(runes))
}
