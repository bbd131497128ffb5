package utils

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SafeContent renders user supplied text for templates: markup outside the UGC
// policy is removed and line breaks are kept.
func SafeContent(input string) template.HTML {
	clean := Sanitize(input)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(clean, "\n", "<br>"))
}
