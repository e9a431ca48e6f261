// Package locales embeds the localization templates used for annotations
// and disambiguations. This is a standalone package with no imports to avoid
// circular dependencies.
//
// Usage:
//
//	templates.Load(locales.FS, ".")
package locales

import "embed"

//go:embed */*.yaml
var FS embed.FS
