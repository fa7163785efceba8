// Package pipeline runs the publication cycles end to end: read the curated
// tables, scrape each division, resolve and merge, then write the season
// worksheet.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/backup"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/publish"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/supplement"
)

// ErrInvalidSeason is returned for season numbers below 1.
var ErrInvalidSeason = errors.New("season must be a positive number")

// Deps are the collaborators of a Pipeline. Source may be nil for runs that
// never scrape (RefreshPro, RefreshRosters, Backup).
type Deps struct {
	Source      standings.ScrapeSource
	Store       standings.TableStore
	League      config.League
	Origin      string
	Nationality string
	Logger      *slog.Logger
}

// Pipeline wires the pure transforms to a scrape source and a table store.
type Pipeline struct {
	source      standings.ScrapeSource
	store       standings.TableStore
	league      config.League
	nationality string
	reader      *supplement.Reader
	assembler   standings.Assembler
	logger      *slog.Logger
	newRunID    func() string
}

// New creates a Pipeline.
func New(d Deps) *Pipeline {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:      d.Source,
		store:       d.Store,
		league:      d.League,
		nationality: d.Nationality,
		reader:      supplement.NewReader(d.Store, d.League.Sheets),
		assembler:   standings.Assembler{Origin: d.Origin},
		logger:      logger,
		newRunID:    uuid.NewString,
	}
}

func (p *Pipeline) begin(op string, season int) (*slog.Logger, Result, error) {
	id := p.newRunID()
	log := p.logger.With("run_id", id, "op", op, "season", season)
	res := Result{RunID: id}
	if season < 1 {
		return log, res, fmt.Errorf("%w: %d", ErrInvalidSeason, season)
	}
	return log, res, nil
}

// Publish rebuilds the whole season worksheet from a fresh scrape.
func (p *Pipeline) Publish(ctx context.Context, season int) (Result, error) {
	log, res, err := p.begin("publish", season)
	if err != nil {
		return res, err
	}

	rows, err := p.build(ctx, season, log, &res)
	if err != nil {
		return res, err
	}

	sheet := p.league.SeasonSheet(season)
	log.Info("Uploading statistics", "sheet", sheet, "rows", len(rows))
	if err := publish.New(p.store, log).FullReplace(ctx, sheet, rows); err != nil {
		return res, err
	}
	res.RowsWritten = len(rows)

	log.Info("Publish complete", "summary", res.Summary())
	return res, nil
}

// Preview assembles the season worksheet without writing it.
func (p *Pipeline) Preview(ctx context.Context, season int) ([]standings.PublishedRow, Result, error) {
	log, res, err := p.begin("preview", season)
	if err != nil {
		return nil, res, err
	}
	rows, err := p.build(ctx, season, log, &res)
	if err != nil {
		return nil, res, err
	}
	log.Info("Preview assembled", "rows", len(rows), "summary", res.Summary())
	return rows, res, nil
}

// RefreshPro replaces only the professional-tier block of the season
// worksheet with the current Pro/Ch table.
func (p *Pipeline) RefreshPro(ctx context.Context, season int) (Result, error) {
	log, res, err := p.begin("pro", season)
	if err != nil {
		return res, err
	}

	pro, err := p.reader.ProTeams(ctx)
	if err != nil {
		return res, err
	}
	res.ProTeams = len(pro)

	out, err := publish.New(p.store, log).PartialReplace(ctx, p.league.SeasonSheet(season), p.assembler.ProRows(pro))
	if err != nil {
		return res, err
	}
	res.RowsWritten = out.Inserted

	log.Info("Professional teams refreshed", "summary", res.Summary())
	return res, nil
}

// RefreshRosters rewrites the Players and Coach columns of the season
// worksheet from the roster tables. Rows in elevated divisions keep the
// values already published.
func (p *Pipeline) RefreshRosters(ctx context.Context, season int) (Result, error) {
	log, res, err := p.begin("rosters", season)
	if err != nil {
		return res, err
	}

	rosters, err := p.reader.Rosters(ctx)
	if err != nil {
		return res, err
	}

	sheet := p.league.SeasonSheet(season)
	table, err := p.store.ReadTable(ctx, sheet)
	if err != nil {
		return res, fmt.Errorf("read %q: %w", sheet, err)
	}
	if missing := table.MissingColumns(
		standings.ColumnPlayers, standings.ColumnDivision,
		standings.ColumnPageURL, standings.ColumnCoach,
	); len(missing) > 0 {
		return res, fmt.Errorf("%w: %q is missing column(s) %v", supplement.ErrMalformedTable, sheet, missing)
	}

	players, coaches := rosterColumns(table, rosters)
	adapter := publish.New(p.store, log)
	if err := adapter.WriteColumn(ctx, sheet, standings.PlayersColumn, players); err != nil {
		return res, err
	}
	if err := adapter.WriteColumn(ctx, sheet, standings.CoachColumn, coaches); err != nil {
		return res, err
	}
	res.Teams = len(table.Records)
	res.RowsWritten = len(players)

	log.Info("Rosters refreshed", "sheet", sheet, "summary", res.Summary())
	return res, nil
}

// Backup writes the season worksheet to w as CSV.
func (p *Pipeline) Backup(ctx context.Context, season int, w io.Writer) (Result, error) {
	log, res, err := p.begin("backup", season)
	if err != nil {
		return res, err
	}
	n, err := backup.Export(ctx, p.store, p.league.SeasonSheet(season), w)
	if err != nil {
		return res, err
	}
	res.RowsWritten = n
	log.Info("Backup written", "rows", n)
	return res, nil
}

// --------------------------------------------------------------------------
// Internals
// --------------------------------------------------------------------------

type inputs struct {
	include []string
	exclude []string
	renames standings.RenameTable
	rosters standings.RosterTable
	pro     []standings.ProTeam
}

// readInputs loads every curated table up front so a malformed one aborts
// the run before anything is scraped or written.
func (p *Pipeline) readInputs(ctx context.Context) (inputs, error) {
	var in inputs
	var err error
	if in.include, err = p.reader.Additional(ctx); err != nil {
		return in, err
	}
	if in.exclude, err = p.reader.Removed(ctx); err != nil {
		return in, err
	}
	if in.renames, err = p.reader.Renames(ctx); err != nil {
		return in, err
	}
	if in.rosters, err = p.reader.Rosters(ctx); err != nil {
		return in, err
	}
	if in.pro, err = p.reader.ProTeams(ctx); err != nil {
		return in, err
	}
	return in, nil
}

func (p *Pipeline) build(ctx context.Context, season int, log *slog.Logger, res *Result) ([]standings.PublishedRow, error) {
	if p.source == nil {
		return nil, errors.New("no scrape source configured")
	}

	in, err := p.readInputs(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("Supplementary tables loaded",
		"include", len(in.include), "exclude", len(in.exclude),
		"renames", len(in.renames), "rosters", len(in.rosters), "pro_teams", len(in.pro))

	log.Info("Getting team statistics", "divisions", len(p.league.Divisions))
	var selected []standings.RawRow
	for _, d := range p.league.Divisions {
		rows, err := p.source.FetchDivision(ctx, season, d)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("Division fetch failed", "division", d, "error", err)
			res.DivisionsFailed++
			res.AddErrorf("fetch %s: %v", d, err)
			continue
		}
		ids := standings.Resolve(standings.Candidates(rows, p.nationality), in.include, in.exclude)
		kept := standings.FilterRows(rows, ids)
		res.Divisions++
		res.RowsScraped += len(rows)
		log.Info("Division fetched", "division", d, "rows", len(rows), "teams", len(kept))
		selected = append(selected, kept...)
	}

	records, diags := standings.Extract(selected)
	for _, dg := range diags {
		log.Warn("Row dropped", "page_id", dg.PageID, "division", dg.Division, "reason", dg.Reason)
		res.AddError(dg.String())
	}
	res.RowsDropped = len(diags)

	records, dups := standings.UniqueByPageID(records)
	for _, id := range dups {
		log.Warn("Team listed in more than one division", "page_id", id)
		res.AddErrorf("duplicate page id %s", id)
	}

	merged := standings.Merge(records, in.rosters, in.renames)
	res.Teams = len(merged)
	res.ProTeams = len(in.pro)
	log.Info("Merged supplementary data", "teams", len(merged), "pro_teams", len(in.pro))

	return p.assembler.Assemble(in.pro, merged), nil
}

// rosterColumns rebuilds the Players and Coach columns of a season
// worksheet, indexed from the first data row. Blank sheet rows stay blank.
func rosterColumns(t standings.Table, rosters standings.RosterTable) (players, coaches []string) {
	if len(t.Records) == 0 {
		return nil, nil
	}
	rowOf := func(i int) int {
		if len(t.Rows) == len(t.Records) {
			return t.Rows[i]
		}
		return publish.FirstDataRow + i
	}

	n := rowOf(len(t.Records)-1) - publish.FirstDataRow + 1
	players = make([]string, n)
	coaches = make([]string, n)
	for i, rec := range t.Records {
		idx := rowOf(i) - publish.FirstDataRow
		d, _ := standings.ParseDivision(rec[standings.ColumnDivision])
		fresh := rosters[standings.PageIDFromURL(rec[standings.ColumnPageURL])]
		players[idx] = standings.ResolveField(rec[standings.ColumnPlayers], fresh.PlayersString(), d)
		coaches[idx] = standings.ResolveField(rec[standings.ColumnCoach], fresh.Coach, d)
	}
	return players, coaches
}
