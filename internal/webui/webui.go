// Package webui embeds the single-page chat widget served at the server root.
package webui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Handler serves the chat page and its assets.
func Handler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// embed guarantees the directory exists; a failure here is a build defect.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
