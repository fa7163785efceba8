// Package sheets provides the spreadsheet TableStore: a Google Sheets client
// for the live hub document and an in-memory store with the same semantics.
//
// All calls go through a token bucket limiter sized to the Sheets API
// per-user quota.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

const (
	requestsPerMinute = 60
	spreadsheetMIME   = "application/vnd.google-apps.spreadsheet"
	valueInputOption  = "USER_ENTERED"
)

// Client is a TableStore backed by one Google spreadsheet. It is built once
// per run and shared by every stage.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	limiter       *rate.Limiter
	logger        *slog.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

var _ standings.TableStore = (*Client)(nil)

// Options configures New.
type Options struct {
	CredentialsFile string
	SpreadsheetID   string
	// SpreadsheetName is looked up through Drive when SpreadsheetID is empty.
	SpreadsheetName string
}

// New authenticates with a service account key and opens the spreadsheet.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	creds := option.WithCredentialsFile(opts.CredentialsFile)

	svc, err := sheets.NewService(ctx, creds, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	id := opts.SpreadsheetID
	if id == "" {
		drv, err := drive.NewService(ctx, creds, option.WithScopes(drive.DriveMetadataReadonlyScope))
		if err != nil {
			return nil, fmt.Errorf("create drive service: %w", err)
		}
		id, err = findSpreadsheet(ctx, drv, opts.SpreadsheetName)
		if err != nil {
			return nil, err
		}
		logger.Info("Resolved spreadsheet", "name", opts.SpreadsheetName, "id", id)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: id,
		limiter:       rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
		logger:        logger,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// SpreadsheetID returns the id of the opened document.
func (c *Client) SpreadsheetID() string { return c.spreadsheetID }

func findSpreadsheet(ctx context.Context, drv *drive.Service, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMIME)
	list, err := drv.Files.List().Q(q).Fields("files(id, name)").PageSize(2).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("search spreadsheet %q: %w", name, err)
	}
	switch len(list.Files) {
	case 0:
		return "", fmt.Errorf("spreadsheet %q not shared with the service account", name)
	case 1:
		return list.Files[0].Id, nil
	default:
		return "", fmt.Errorf("spreadsheet name %q is ambiguous, set SPREADSHEET_ID", name)
	}
}

// ReadTable reads a whole worksheet; the first row is the header.
func (c *Client) ReadTable(ctx context.Context, name string) (standings.Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return standings.Table{}, fmt.Errorf("rate limit wait: %w", err)
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(name)).Context(ctx).Do()
	if err != nil {
		return standings.Table{}, fmt.Errorf("read %q: %w", name, classify(err))
	}
	return toTable(stringGrid(resp.Values)), nil
}

// WriteRows overwrites cells starting at the offset. Formulas are evaluated
// by the service as if typed by a user.
func (c *Client) WriteRows(ctx context.Context, name string, rows [][]string, at standings.Offset) error {
	if err := checkOffset(at); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	vr := &sheets.ValueRange{Values: interfaceGrid(rows)}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1(name, at), vr).
		ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %q at %s: %w", name, a1(name, at), classify(err))
	}
	c.logger.Debug("Rows written", "sheet", name, "row", at.Row, "col", at.Col, "count", len(rows))
	return nil
}

// DeleteRows removes an inclusive row range, shifting later rows up.
func (c *Client) DeleteRows(ctx context.Context, name string, r standings.RowRange) error {
	if err := checkRange(r); err != nil {
		return err
	}
	sheetID, err := c.sheetID(ctx, name)
	if err != nil {
		return err
	}
	req := &sheets.Request{DeleteDimension: &sheets.DeleteDimensionRequest{
		Range: dimensionRange(sheetID, r.Start-1, r.End),
	}}
	if err := c.batchUpdate(ctx, req); err != nil {
		return fmt.Errorf("delete rows %d-%d of %q: %w", r.Start, r.End, name, err)
	}
	c.logger.Debug("Rows deleted", "sheet", name, "start", r.Start, "end", r.End)
	return nil
}

// InsertRows opens len(rows) blank rows at atRow and fills them.
func (c *Client) InsertRows(ctx context.Context, name string, rows [][]string, atRow int) error {
	if atRow < 1 {
		return fmt.Errorf("invalid insert row %d", atRow)
	}
	if len(rows) == 0 {
		return nil
	}
	sheetID, err := c.sheetID(ctx, name)
	if err != nil {
		return err
	}
	req := &sheets.Request{InsertDimension: &sheets.InsertDimensionRequest{
		Range:             dimensionRange(sheetID, atRow-1, atRow-1+len(rows)),
		InheritFromBefore: atRow > 2,
	}}
	if err := c.batchUpdate(ctx, req); err != nil {
		return fmt.Errorf("insert %d rows into %q: %w", len(rows), name, err)
	}
	return c.WriteRows(ctx, name, rows, standings.Offset{Row: atRow, Col: 1})
}

func (c *Client) batchUpdate(ctx context.Context, reqs ...*sheets.Request) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return classify(err)
}

// sheetID resolves a worksheet title to its numeric id, caching the lookup.
func (c *Client) sheetID(ctx context.Context, name string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[name]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("load spreadsheet properties: %w", classify(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range doc.Sheets {
		if s.Properties != nil {
			c.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}
	id, ok = c.sheetIDs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return id, nil
}

// dimensionRange builds a 0-based, end-exclusive row range. SheetId and
// StartIndex are force-sent since zero is a valid value for both.
func dimensionRange(sheetID int64, start, end int) *sheets.DimensionRange {
	return &sheets.DimensionRange{
		SheetId:         sheetID,
		Dimension:       "ROWS",
		StartIndex:      int64(start),
		EndIndex:        int64(end),
		ForceSendFields: []string{"SheetId", "StartIndex"},
	}
}

// classify maps an unknown-range API error onto ErrSheetNotFound.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest &&
		strings.Contains(gerr.Message, "Unable to parse range") {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, gerr.Message)
	}
	return err
}
