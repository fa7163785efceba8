// Package supplement reads the manually maintained worksheets that adjust
// the scraped standings: forced inclusions and exclusions, renames, rosters,
// coaches and the professional-tier override table.
//
// A worksheet missing one of its key columns is a configuration error and
// aborts the run before anything is published.
package supplement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// ErrMalformedTable marks a supplementary worksheet without its key columns
// or with values that cannot be interpreted.
var ErrMalformedTable = errors.New("malformed supplementary table")

// Column names used by the supplementary worksheets.
const (
	colPage     = "esea_page"
	colTeamName = "team_name"
	colPlayers  = "players"
	colCoach    = "coach"
	colLogoURL  = "logo_url"
	colDivision = "division"
	colRecord   = "record"
	colPageURL  = "page_url"
)

// Reader loads supplementary tables from a TableStore.
type Reader struct {
	store standings.TableStore
	names config.SheetNames
}

// NewReader creates a Reader for the given worksheet names.
func NewReader(store standings.TableStore, names config.SheetNames) *Reader {
	return &Reader{store: store, names: names}
}

// Additional returns the page ids forced into the roster regardless of
// nationality.
func (r *Reader) Additional(ctx context.Context) ([]string, error) {
	t, err := r.read(ctx, r.names.AdditionalTeams, colPage)
	if err != nil {
		return nil, err
	}
	return pageIDs(t), nil
}

// Removed returns the page ids forced out of the roster. An entirely empty
// worksheet means nothing is removed.
func (r *Reader) Removed(ctx context.Context) ([]string, error) {
	t, err := r.store.ReadTable(ctx, r.names.RemoveTeams)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", r.names.RemoveTeams, err)
	}
	if t.Empty() {
		return nil, nil
	}
	if err := requireColumns(r.names.RemoveTeams, t, colPage); err != nil {
		return nil, err
	}
	return pageIDs(t), nil
}

// Renames returns the display-name overrides keyed by page id.
func (r *Reader) Renames(ctx context.Context) (standings.RenameTable, error) {
	t, err := r.read(ctx, r.names.TeamNames, colPage, colTeamName)
	if err != nil {
		return nil, err
	}
	out := make(standings.RenameTable, len(t.Records))
	for _, rec := range t.Records {
		id := standings.PageIDFromURL(rec[colPage])
		name := strings.TrimSpace(rec[colTeamName])
		if id == "" || name == "" {
			continue
		}
		if _, dup := out[id]; !dup {
			out[id] = name
		}
	}
	return out, nil
}

// Rosters joins the Players and Coaches worksheets into one table keyed by
// page id. A team may appear in either sheet alone.
func (r *Reader) Rosters(ctx context.Context) (standings.RosterTable, error) {
	players, err := r.read(ctx, r.names.Players, colPage, colPlayers)
	if err != nil {
		return nil, err
	}
	coaches, err := r.read(ctx, r.names.Coaches, colPage, colCoach)
	if err != nil {
		return nil, err
	}

	out := make(standings.RosterTable, len(players.Records))
	for _, rec := range players.Records {
		id := standings.PageIDFromURL(rec[colPage])
		if id == "" {
			continue
		}
		if _, dup := out[id]; dup {
			continue
		}
		out[id] = standings.RosterEntry{PageID: id, Players: standings.SplitPlayers(rec[colPlayers])}
	}

	seenCoach := make(map[string]struct{}, len(coaches.Records))
	for _, rec := range coaches.Records {
		id := standings.PageIDFromURL(rec[colPage])
		if id == "" {
			continue
		}
		if _, dup := seenCoach[id]; dup {
			continue
		}
		seenCoach[id] = struct{}{}
		entry := out[id]
		entry.PageID = id
		entry.Coach = strings.TrimSpace(rec[colCoach])
		out[id] = entry
	}
	return out, nil
}

// ProTeams returns the professional-tier override rows in sheet order. Each
// row must name an elevated division.
func (r *Reader) ProTeams(ctx context.Context) ([]standings.ProTeam, error) {
	name := r.names.ProTeams
	t, err := r.read(ctx, name,
		colTeamName, colLogoURL, colPlayers, colDivision, colRecord, colPageURL, colCoach)
	if err != nil {
		return nil, err
	}

	out := make([]standings.ProTeam, 0, len(t.Records))
	for i, rec := range t.Records {
		d, err := standings.ParseDivision(rec[colDivision])
		if err != nil || !d.Elevated() {
			return nil, fmt.Errorf("%w: %q row %d: division %q is not pro or challenger",
				ErrMalformedTable, name, i+2, rec[colDivision])
		}
		var logo *string
		if u := strings.TrimSpace(rec[colLogoURL]); u != "" {
			logo = &u
		}
		out = append(out, standings.ProTeam{
			Name:     strings.TrimSpace(rec[colTeamName]),
			LogoRef:  logo,
			Players:  rec[colPlayers],
			Division: d,
			Record:   rec[colRecord],
			PageURL:  strings.TrimSpace(rec[colPageURL]),
			Coach:    rec[colCoach],
		})
	}
	return out, nil
}

func (r *Reader) read(ctx context.Context, name string, cols ...string) (standings.Table, error) {
	t, err := r.store.ReadTable(ctx, name)
	if err != nil {
		return standings.Table{}, fmt.Errorf("read %q: %w", name, err)
	}
	if err := requireColumns(name, t, cols...); err != nil {
		return standings.Table{}, err
	}
	return t, nil
}

func requireColumns(name string, t standings.Table, cols ...string) error {
	if missing := t.MissingColumns(cols...); len(missing) > 0 {
		return fmt.Errorf("%w: %q is missing column(s) %s",
			ErrMalformedTable, name, strings.Join(missing, ", "))
	}
	return nil
}

func pageIDs(t standings.Table) []string {
	ids := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		if id := standings.PageIDFromURL(rec[colPage]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
