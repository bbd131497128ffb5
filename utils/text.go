package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// CapitaliseWords upper-cases the first letter of every space separated word.
func CapitaliseWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

var relativeUnits = []struct {
	name    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// RelativeTime renders t relative to now, e.g. "just now" or "3 days ago".
func RelativeTime(t, now time.Time) string {
	diff := int64(now.Sub(t) / time.Second)
	if diff < 1 {
		return "just now"
	}
	for _, u := range relativeUnits {
		n := diff / u.seconds
		if n < 1 {
			continue
		}
		if n == 1 {
			return fmt.Sprintf("1 %s ago", u.name)
		}
		return fmt.Sprintf("%d %ss ago", n, u.name)
	}
	return "just now"
}
