package domain

import (
	"strconv"
	"strings"
)

// TargetLanguages are the report languages offered to the user, in display order.
var TargetLanguages = []string{
	"🇺🇸 English (Global Standard)",
	"🇮🇩 Indonesia (South East Asia)",
	"🇧🇷 Portuguese (Brazil - Major Market)",
	"🇪🇸 Spanish (LATAM/Europe)",
	"🇮🇳 Hindi (India - Tech Hub)",
	"🇷🇺 Russian (Eastern Europe)",
	"🇨🇳 Chinese (Asia Tech)",
	"🇯🇵 Japanese (High Value)",
}

// DefaultLanguage is preselected in the form.
var DefaultLanguage = TargetLanguages[0]

// IsTargetLanguage reports whether label is one of the fixed choices.
func IsTargetLanguage(label string) bool {
	for _, l := range TargetLanguages {
		if l == label {
			return true
		}
	}
	return false
}

// ResolveLanguage maps user input to a fixed label. It accepts the exact label,
// a 1-based index, or a case-insensitive match on the language name
// ("english", "Japanese").
func ResolveLanguage(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if IsTargetLanguage(input) {
		return input, true
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(TargetLanguages) {
			return TargetLanguages[n-1], true
		}
		return "", false
	}
	needle := strings.ToLower(input)
	for _, l := range TargetLanguages {
		if strings.EqualFold(languageName(l), needle) {
			return l, true
		}
	}
	return "", false
}

// languageName strips the flag and the parenthesised region: "🇺🇸 English (Global Standard)" -> "English".
func languageName(label string) string {
	name := label
	if i := strings.Index(name, " "); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, " ("); i >= 0 {
		name = name[:i]
	}
	return name
}
