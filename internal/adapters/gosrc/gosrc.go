// Package gosrc renders artifact tables as Go source, for diffing builds and
// for programs that prefer compiled-in maps over the binary artifact.
package gosrc

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/corey/ruinadex/internal/domain/display"
	"github.com/corey/ruinadex/internal/domain/ident"
	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/internal/ports"
)

// Literal returns a Go string literal for s. Names carry quotes and
// apostrophes often, so a raw `...` literal is preferred; s falls back to an
// interpreted literal when it holds a backquote, a carriage return, NUL, a BOM
// or invalid UTF-8.
func Literal(s string) string {
	if canBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func canBackquote(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	return !strings.ContainsAny(s, "`\r\x00\uFEFF")
}

// WriteTables writes a gofmt-formatted Go file declaring the display names,
// disambiguations and annotations of a, keyed by TypedID text form. Locale
// arrays follow locale.All; missing text is the empty string.
func WriteTables(w io.Writer, pkg string, a *ports.Artifact) error {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by ruinadex dump; DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)

	fmt.Fprintf(&buf, "// Locales is the order of every [%d]string below.\n", len(locale.All))
	buf.WriteString("var Locales = [...]string{")
	for i, loc := range locale.All {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.Quote(loc.String()))
	}
	buf.WriteString("}\n\n")

	ids := a.Corpus.IDs()
	writeTable(&buf, "Names", ids, func(id ident.TypedID, loc locale.Locale) (string, bool) {
		return display.Name(a.Corpus, id, loc)
	})
	writeTable(&buf, "Disambiguations", ids, a.Disambiguations.Get)
	writeTable(&buf, "Annotations", ids, a.Annotations.Get)

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func writeTable(buf *bytes.Buffer, name string, ids []ident.TypedID, get func(ident.TypedID, locale.Locale) (string, bool)) {
	fmt.Fprintf(buf, "var %s = map[string][%d]string{\n", name, len(locale.All))
	for _, id := range ids {
		var row [len(locale.All)]string
		nonEmpty := false
		for _, loc := range locale.All {
			if s, ok := get(id, loc); ok {
				row[loc] = s
				nonEmpty = nonEmpty || s != ""
			}
		}
		if !nonEmpty {
			continue
		}
		fmt.Fprintf(buf, "%s: {", strconv.Quote(id.String()))
		for i, s := range row {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(Literal(s))
		}
		buf.WriteString("},\n")
	}
	buf.WriteString("}\n\n")
}
