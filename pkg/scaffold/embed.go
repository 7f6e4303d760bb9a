package scaffold

import (
	"embed"
	"io/fs"
)

//go:embed all:templates/plugin
var templateFS embed.FS

// TemplateFS returns the plugin template tree rooted at its top directory.
func TemplateFS() fs.FS {
	sub, err := fs.Sub(templateFS, "templates/plugin")
	if err != nil {
		panic("scaffold: embedded template missing: " + err.Error())
	}
	return sub
}
