package templates

import (
	"embed"
	"html/template"
	"time"

	"github.com/cppla/gossip/models"
	"github.com/cppla/gossip/utils"
)

//go:embed *.html
var files embed.FS

// Funcs are the helpers every page may call.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"content": utils.SafeContent,
		"ago": func(ts models.Timestamp) string {
			if ts.IsZero() {
				return ""
			}
			return utils.RelativeTime(ts.Time, time.Now())
		},
	}
}

// Load parses the embedded pages.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "*.html")
}
