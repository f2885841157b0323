package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (NFC + lowercase + trim).
// NFC matters for Korean input: macOS clients deliver decomposed jamo that
// must compare equal to the composed form.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// NormalizeKey normalizes a name for use as a lookup key by removing
// separators and punctuation that vary between display and slug forms
// (e.g. "Mr. Mime" → "mrmime", "Farfetch'd" → "farfetchd")
func NormalizeKey(name string) string {
	name = Normalize(name)
	if name == "" {
		return ""
	}

	var builder strings.Builder
	for _, r := range name {
		switch r {
		case ' ', '-', '_', '.', ':', '‘', '’', '\'':
			continue
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a display name to the API slug form: lowercase,
// hyphen-separated, diacritics stripped, gender signs mapped the way the
// upstream dex does ("Nidoran♀" → "nidoran-f", "Flabébé" → "flabebe")
func Slugify(name string) string {
	name = Normalize(name)
	if stripped, _, err := transform.String(diacriticStripper, name); err == nil {
		name = stripped
	}
	name = strings.ReplaceAll(name, "♀", "-f")
	name = strings.ReplaceAll(name, "♂", "-m")
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "'", "")
	name = strings.ReplaceAll(name, ".", "")
	name = strings.ReplaceAll(name, ":", "")
	return name
}

// Contains checks if a string slice contains a specific item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
