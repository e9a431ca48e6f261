package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/app"
	"github.com/corey/ruinadex/internal/domain/disambig"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// paint wraps s in code when color is on.
func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

// formatReport renders a build summary.
//
//	⚡ built 24 records, 9 abnormalities │ 3412 grams │ 41ms
//	  → dex/data/artifact.bin
//	  ⚠ 1 stale override, 2 unresolved groups
func formatReport(r *app.Report, artifact string, color bool) string {
	var sb strings.Builder
	sb.WriteString(paint(color, colorBold, fmt.Sprintf("⚡ built %d records, %d abnormalities", r.Records, r.Abnormalities)))
	fmt.Fprintf(&sb, " │ %d grams │ %d disambiguated │ %s\n",
		r.Grams, r.Disambiguated, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  → %s\n", paint(color, colorCyan, artifact))
	if len(r.Stale) > 0 || len(r.Unresolved) > 0 {
		sb.WriteString(paint(color, colorYellow, fmt.Sprintf("  ⚠ %s, %s",
			plural(len(r.Stale), "stale override"), plural(len(r.Unresolved), "unresolved group"))))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatHits renders ranked query hits.
//
//	⚡ 3 hits │ 120µs
//	  c#607204   41  Degraded Pillar (Binah Reception)
func formatHits(hits []queryHit, elapsed time.Duration, color bool) string {
	var sb strings.Builder
	sb.WriteString(paint(color, colorBold, fmt.Sprintf("⚡ %s", plural(len(hits), "hit"))))
	fmt.Fprintf(&sb, " │ %s\n", elapsed.Round(time.Microsecond))

	width := 0
	for _, h := range hits {
		width = max(width, len(h.ID))
	}
	for _, h := range hits {
		id := fmt.Sprintf("%-*s", width, h.ID)
		fmt.Fprintf(&sb, "  %s  %s  %s\n",
			paint(color, colorCyan, id),
			paint(color, colorGray, fmt.Sprintf("%4d", h.Score)),
			h.Label)
	}
	return sb.String()
}

// formatEntity renders one record with its text in every locale.
//
//	k#150036  key_page  collectable  urban_legend
//	  en  Xiao’s Page (Liu Section 1)
//	  ko  샤오의 책장 (류 협회 1과)
func formatEntity(d *dex.Dex, id dex.TypedID, rec dex.Record, color bool) string {
	meta := rec.Meta()
	var sb strings.Builder
	sb.WriteString(paint(color, colorBold, id.String()))
	fmt.Fprintf(&sb, "  %s  %s", id.Kind.Name(), paint(color, colorGreen, meta.Collectability.String()))
	if meta.Chapter != nil {
		fmt.Fprintf(&sb, "  %s", paint(color, colorMagenta, meta.Chapter.String()))
	}
	sb.WriteString("\n")

	for _, loc := range dex.Locales {
		if _, ok := d.Name(id, loc); !ok {
			continue
		}
		fmt.Fprintf(&sb, "  %-5s %s", loc, d.Label(id, loc))
		if ann, ok := d.Annotation(id, loc); ok {
			fmt.Fprintf(&sb, "  %s", paint(color, colorGray, "["+ann+"]"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatGroups renders ambiguous names with the label of each member.
//
//	en  xiao’s page
//	    k#150020  Xiao’s Page (Liu Section 1)
func formatGroups(d *dex.Dex, groups []disambig.Group, color bool) string {
	if len(groups) == 0 {
		return "no ambiguous names\n"
	}
	var sb strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&sb, "%-5s %s\n", g.Locale, paint(color, colorBold, g.Name))
		for _, id := range g.Members {
			label := d.Label(id, g.Locale)
			if _, ok := d.Disambiguation(id, g.Locale); !ok {
				label = paint(color, colorYellow, label+"  ⚠ unresolved")
			}
			fmt.Fprintf(&sb, "      %s  %s\n", paint(color, colorCyan, id.String()), label)
		}
	}
	return sb.String()
}

// formatStats renders artifact statistics.
func formatStats(s dex.Stats) string {
	kinds := make([]string, 0, len(s.Records))
	total := 0
	for k, n := range s.Records {
		kinds = append(kinds, k)
		total += n
	}
	sort.Strings(kinds)

	var sb strings.Builder
	fmt.Fprintf(&sb, "records        %d\n", total)
	for _, k := range kinds {
		fmt.Fprintf(&sb, "  %-13s%d\n", k, s.Records[k])
	}
	fmt.Fprintf(&sb, "texts          %d\n", s.Texts)
	fmt.Fprintf(&sb, "annotated      %d\n", s.Annotated)
	fmt.Fprintf(&sb, "disambiguated  %d\n", s.Disambiguated)
	fmt.Fprintf(&sb, "grams          %d (%d postings)\n", s.Grams, s.Postings)
	fmt.Fprintf(&sb, "abnormalities  %d (%d grams)\n", s.Abnormalities, s.EncyclopediaGrams)
	return sb.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
