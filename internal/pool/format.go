// Package pool implements the line-oriented admin text format for the
// prize pool:
//
//	Name[ | Sponsor[ (https://link)]]=Total[/Remaining]
//
// One entry per line, order significant (the first line is the grand
// prize). Parsing is all-or-nothing: any bad line fails the whole
// configuration with a line-numbered error.
package pool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DO1FFE/adventskalender-backend/internal/models"
)

// LineError describes one malformed configuration line. Line numbers are
// 1-based over the submitted text, skipped lines included.
type LineError struct {
	Line    int
	Message string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ValidationError aggregates all malformed lines of one configuration
// attempt. The existing pool is left untouched when it is returned.
type ValidationError struct {
	Lines []LineError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		msgs = append(msgs, l.Error())
	}
	return "invalid pool configuration: " + strings.Join(msgs, "; ")
}

// Parse parses the admin text format into an ordered, validated pool.
// Empty lines and lines starting with '#' are skipped. Out-of-range
// remaining counts are clamped into [0, total]; everything else malformed
// is rejected.
func Parse(text string) ([]models.PrizeEntry, error) {
	var entries []models.PrizeEntry
	verr := &ValidationError{}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lineNo := i + 1

		eq := strings.LastIndex(line, "=")
		if eq < 0 {
			verr.Lines = append(verr.Lines, LineError{lineNo, "missing '='"})
			continue
		}

		name, sponsor, link := parseNamePart(line[:eq])
		if name == "" {
			verr.Lines = append(verr.Lines, LineError{lineNo, "empty prize name"})
			continue
		}

		total, remaining, err := parseCountPart(line[eq+1:])
		if err != nil {
			verr.Lines = append(verr.Lines, LineError{lineNo, err.Error()})
			continue
		}

		entries = append(entries, models.PrizeEntry{
			Position:    len(entries),
			Name:        name,
			Total:       total,
			Remaining:   remaining,
			Sponsor:     sponsor,
			SponsorLink: link,
		})
	}

	if len(verr.Lines) > 0 {
		return nil, verr
	}
	if !hasStock(entries) {
		return nil, &ValidationError{Lines: []LineError{{1, "at least one entry must have a total greater than zero"}}}
	}
	return entries, nil
}

// Format renders a pool back into the admin text format. Parse(Format(p))
// reproduces p exactly.
func Format(entries []models.PrizeEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Name)
		if e.Sponsor != "" {
			b.WriteString(" | ")
			b.WriteString(e.Sponsor)
			if e.SponsorLink != "" {
				b.WriteString(" (")
				b.WriteString(e.SponsorLink)
				b.WriteString(")")
			}
		}
		fmt.Fprintf(&b, "=%d/%d\n", e.Total, e.Remaining)
	}
	return b.String()
}

// parseNamePart splits "Name | Sponsor (link)" into its pieces.
func parseNamePart(s string) (name, sponsor, link string) {
	name = strings.TrimSpace(s)
	if pipe := strings.Index(name, "|"); pipe >= 0 {
		sponsor = strings.TrimSpace(name[pipe+1:])
		name = strings.TrimSpace(name[:pipe])
	}
	if sponsor != "" && strings.HasSuffix(sponsor, ")") {
		if open := strings.LastIndex(sponsor, "("); open >= 0 {
			link = strings.TrimSpace(sponsor[open+1 : len(sponsor)-1])
			sponsor = strings.TrimSpace(sponsor[:open])
		}
	}
	return name, sponsor, link
}

// parseCountPart parses "Total[/Remaining]". Remaining defaults to Total
// and is clamped into [0, total]; a negative or non-numeric total is an
// error.
func parseCountPart(s string) (total, remaining int, err error) {
	countPart := strings.TrimSpace(s)
	remainingPart := ""
	if slash := strings.Index(countPart, "/"); slash >= 0 {
		remainingPart = strings.TrimSpace(countPart[slash+1:])
		countPart = strings.TrimSpace(countPart[:slash])
	}

	total, err = strconv.Atoi(countPart)
	if err != nil {
		return 0, 0, fmt.Errorf("total %q is not a number", countPart)
	}
	if total < 0 {
		return 0, 0, fmt.Errorf("total must not be negative")
	}

	remaining = total
	if remainingPart != "" {
		remaining, err = strconv.Atoi(remainingPart)
		if err != nil {
			return 0, 0, fmt.Errorf("remaining %q is not a number", remainingPart)
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}
	return total, remaining, nil
}

func hasStock(entries []models.PrizeEntry) bool {
	for _, e := range entries {
		if e.Total > 0 {
			return true
		}
	}
	return false
}
