package cmd

import (
	"errors"
	"strings"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/adapters/codec"
	"github.com/corey/ruinadex/internal/domain/disambig"
)

// isDBLockError reports whether err is a bbolt lock timeout. bbolt returns
// the string "timeout" when it cannot acquire the file lock in time.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnose returns actionable guidance for the errors users hit most, or "".
func diagnose(err error) string {
	var ve *codec.VersionError
	var te *disambig.TemplateError
	switch {
	case errors.Is(err, dex.ErrNoArtifact):
		return "  → build one first:  ruinadex build\n" +
			"  → or point at a file:  --artifact path/to/artifact.bin"
	case errors.As(err, &ve):
		return "  → the artifact was written by another ruinadex version\n" +
			"  → rebuild it:  ruinadex build"
	case errors.As(err, &te):
		return "  → add the key to locales/en/*.yaml; other locales fall back to English"
	case isDBLockError(err):
		return "  → the bbolt database is held by another process\n" +
			"  → stop any running `ruinadex serve` or `build --watch` and retry"
	}
	return ""
}
