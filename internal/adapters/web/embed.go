// Package web serves a read-only JSON API and a small search page over a
// dex.Dex. Intended for local debugging of a build; it binds to localhost by
// default and has no auth.
package web

import "embed"

//go:embed static/index.html
var staticFS embed.FS
