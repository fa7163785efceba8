package standings

import (
	"fmt"
	"strings"
)

const secureScheme = "https:"

// LogoFormula renders a logo reference as a sheet IMAGE formula. A nil
// reference renders empty; a reference without the https scheme (the
// protocol-relative "//host/path" form) gets it prepended.
func LogoFormula(ref *string) string {
	if ref == nil || *ref == "" {
		return ""
	}
	u := *ref
	if !strings.HasPrefix(u, secureScheme+"//") {
		u = secureScheme + u
	}
	return fmt.Sprintf(`=IMAGE("%s")`, u)
}

// RecordString formats a win-loss record as "W-L".
func RecordString(wins, losses int) string {
	return fmt.Sprintf("%d-%d", wins, losses)
}

// Assembler projects merged teams into destination rows.
type Assembler struct {
	// Origin is prefixed to relative page ids, e.g. "https://play.esea.net".
	Origin string
}

// PageURL qualifies a page id with the site origin. Absolute URLs are
// returned as they are.
func (a Assembler) PageURL(pageID string) string {
	if pageID == "" || strings.HasPrefix(pageID, "http://") || strings.HasPrefix(pageID, "https://") {
		return pageID
	}
	return strings.TrimRight(a.Origin, "/") + "/" + strings.TrimLeft(pageID, "/")
}

// Row builds the published row for one merged team.
func (a Assembler) Row(t MergedTeam) PublishedRow {
	return PublishedRow{
		TeamName:    t.Name,
		LogoFormula: LogoFormula(t.LogoRef),
		Players:     t.Players,
		Division:    t.Division.Label(),
		Record:      RecordString(t.Wins, t.Losses),
		PageURL:     a.PageURL(t.PageID),
		Coach:       t.Coach,
	}
}

// ProRow builds the published row for a professional-tier override.
func (a Assembler) ProRow(p ProTeam) PublishedRow {
	return PublishedRow{
		TeamName:    p.Name,
		LogoFormula: LogoFormula(p.LogoRef),
		Players:     p.Players,
		Division:    p.Division.Label(),
		Record:      p.Record,
		PageURL:     a.PageURL(p.PageURL),
		Coach:       p.Coach,
	}
}

// ProRows builds the professional-tier block in table order.
func (a Assembler) ProRows(pro []ProTeam) []PublishedRow {
	rows := make([]PublishedRow, 0, len(pro))
	for _, p := range pro {
		rows = append(rows, a.ProRow(p))
	}
	return rows
}

// Assemble returns the full publication: the professional-tier block first,
// then every scraped team in merge order.
func (a Assembler) Assemble(pro []ProTeam, teams []MergedTeam) []PublishedRow {
	rows := a.ProRows(pro)
	for _, t := range teams {
		rows = append(rows, a.Row(t))
	}
	return rows
}
