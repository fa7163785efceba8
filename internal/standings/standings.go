// Package standings defines the canonical shapes that flow through the
// publication pipeline and the pure transforms between them.
//
// Scrapers produce RawRow values, the extractor normalises them into
// TeamRecord, the merger attaches rosters and renames, and the assembler
// projects everything into PublishedRow, the exact column layout of the
// destination worksheet. Nothing in this package performs I/O.
package standings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDivision is returned when a division label cannot be parsed.
var ErrUnknownDivision = errors.New("unknown division")

// --------------------------------------------------------------------------
// Divisions
// --------------------------------------------------------------------------

// Division is a competitive tier, stored lowercase.
type Division string

const (
	DivisionAdvanced     Division = "advanced"
	DivisionMain         Division = "main"
	DivisionIntermediate Division = "intermediate"
	DivisionOpen         Division = "open"
	DivisionPro          Division = "pro"
	DivisionChallenger   Division = "challenger"
)

var allDivisions = []Division{
	DivisionAdvanced, DivisionMain, DivisionIntermediate,
	DivisionOpen, DivisionPro, DivisionChallenger,
}

// ParseDivision accepts any casing of a known division name.
func ParseDivision(s string) (Division, error) {
	d := Division(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allDivisions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDivision, s)
}

// Label is the published form: first letter upper, rest lower.
func (d Division) Label() string {
	if d == "" {
		return ""
	}
	s := strings.ToLower(string(d))
	return strings.ToUpper(s[:1]) + s[1:]
}

// Elevated reports whether roster data for this division is hand-curated.
func (d Division) Elevated() bool {
	return d == DivisionPro || d == DivisionChallenger
}

// IsElevatedLabel reports whether a published division cell names an
// elevated tier. Unknown labels are not elevated.
func IsElevatedLabel(label string) bool {
	d, err := ParseDivision(label)
	return err == nil && d.Elevated()
}

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// RawRow is one standings table row as lifted from the source page, before
// any numeric parsing.
type RawRow struct {
	Name          string   `json:"name"`
	PageID        string   `json:"page_id"`
	LogoSrc       *string  `json:"logo_src,omitempty"`
	Cells         []string `json:"cells"`
	Nationalities []string `json:"nationalities,omitempty"`
	Division      Division `json:"division"`
}

// HasNationality reports whether any flag in the row carries the given title.
func (r RawRow) HasNationality(country string) bool {
	for _, n := range r.Nationalities {
		if strings.EqualFold(strings.TrimSpace(n), country) {
			return true
		}
	}
	return false
}

// TeamRecord is a normalised scraped team. PageID is the identity key.
type TeamRecord struct {
	Name     string   `json:"name"`
	LogoRef  *string  `json:"logo_ref,omitempty"`
	Wins     int      `json:"wins"`
	Losses   int      `json:"losses"`
	Division Division `json:"division"`
	PageID   string   `json:"page_id"`
}

// RosterEntry holds the players and coach maintained for one team.
type RosterEntry struct {
	PageID  string   `json:"page_id"`
	Players []string `json:"players"`
	Coach   string   `json:"coach,omitempty"`
}

// PlayersString renders the roster as a single comma separated cell.
func (e RosterEntry) PlayersString() string {
	return strings.Join(e.Players, ", ")
}

// SplitPlayers parses a delimited players cell, dropping blanks.
func SplitPlayers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RosterTable maps page_id to roster.
type RosterTable map[string]RosterEntry

// RenameTable maps page_id to the display name that replaces the scraped one.
type RenameTable map[string]string

// ProTeam is a row of the manually maintained professional-tier table.
type ProTeam struct {
	Name     string   `json:"name"`
	LogoRef  *string  `json:"logo_ref,omitempty"`
	Players  string   `json:"players"`
	Division Division `json:"division"`
	Record   string   `json:"record"`
	PageURL  string   `json:"page_url"`
	Coach    string   `json:"coach"`
}

// --------------------------------------------------------------------------
// Published rows
// --------------------------------------------------------------------------

// Destination column headers, in publication order. The logo column has no
// header text.
const (
	ColumnTeam     = "Team"
	ColumnLogo     = ""
	ColumnPlayers  = "Players"
	ColumnDivision = "Division"
	ColumnRecord   = "Record"
	ColumnPageURL  = "ESEA Page"
	ColumnCoach    = "Coach"
)

// PublishedHeader is the header row of a season worksheet.
var PublishedHeader = []string{
	ColumnTeam, ColumnLogo, ColumnPlayers, ColumnDivision,
	ColumnRecord, ColumnPageURL, ColumnCoach,
}

// Column positions (1-based) of the roster cells in a season worksheet.
const (
	PlayersColumn = 3
	CoachColumn   = 7
)

// PublishedRow is one destination row. Field order is the column order.
type PublishedRow struct {
	TeamName    string `json:"team_name" csv:"Team"`
	LogoFormula string `json:"logo_formula" csv:"Logo"`
	Players     string `json:"players" csv:"Players"`
	Division    string `json:"division" csv:"Division"`
	Record      string `json:"record" csv:"Record"`
	PageURL     string `json:"page_url" csv:"ESEA Page"`
	Coach       string `json:"coach" csv:"Coach"`
}

// Values returns the row cells in column order. No cell is ever omitted.
func (r PublishedRow) Values() []string {
	return []string{
		r.TeamName, r.LogoFormula, r.Players, r.Division,
		r.Record, r.PageURL, r.Coach,
	}
}

// RowValues flattens rows for a table write.
func RowValues(rows []PublishedRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Values()
	}
	return out
}

// ParsePublishedRow reads a row back from a season worksheet record.
func ParsePublishedRow(rec Record) PublishedRow {
	return PublishedRow{
		TeamName:    rec[ColumnTeam],
		LogoFormula: rec[ColumnLogo],
		Players:     rec[ColumnPlayers],
		Division:    rec[ColumnDivision],
		Record:      rec[ColumnRecord],
		PageURL:     rec[ColumnPageURL],
		Coach:       rec[ColumnCoach],
	}
}
