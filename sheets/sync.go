package sheets

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"github.com/devyboy/scraper-plus-plus/models"
)

const (
	// Listing ID lives in column B of the row schema; rows start below
	// the header.
	identityRange = "Sheet1!B2:B"

	headerRange = "Sheet1!A1:M1"
	originCell  = "Sheet1!A1"
	dataRange   = "Sheet1!A2"
	fullRange   = "Sheet1!A1:Z"
)

var sheetURLRegex = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Synchronizer maps listing batches onto a destination spreadsheet,
// appending only records whose id is not already recorded there.
type Synchronizer struct {
	api   API
	title string
}

func NewSynchronizer(api API, defaultTitle string) *Synchronizer {
	return &Synchronizer{api: api, title: defaultTitle}
}

// Result reports one sync call's outcome. SheetID is returned so a job
// whose destination was created on this run can persist the reference.
type Result struct {
	SheetID  string
	NewCount int
}

// Sync ensures every novel listing in the batch is durably recorded at
// the destination. Re-running against an unchanged page is a no-op.
func (s *Synchronizer) Sync(ctx context.Context, ref string, batch []models.Listing, mode models.SyncMode) (*Result, error) {
	id := SpreadsheetIDFromRef(ref)
	created := false

	if id == "" {
		newID, err := s.api.Create(ctx, s.title)
		if err != nil {
			return nil, fmt.Errorf("create destination: %w", err)
		}
		if err := s.api.Update(ctx, newID, headerRange, [][]interface{}{headerRow()}); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		id = newID
		created = true
		log.Printf("Created destination spreadsheet %s (%q)", id, s.title)
	}

	if mode == models.SyncModeFullReplace {
		return s.fullReplace(ctx, id, batch, created)
	}
	return s.appendNovel(ctx, id, batch, created)
}

// appendNovel filters the batch against the ids already present at the
// destination and appends the survivors in one bulk write.
func (s *Synchronizer) appendNovel(ctx context.Context, id string, batch []models.Listing, created bool) (*Result, error) {
	var existing []string
	if !created {
		var err error
		existing, err = s.readOracle(ctx, id)
		if err != nil {
			// Degrade to "nothing known yet": a duplicate row beats a
			// failed run.
			log.Printf("Warning: dedup read failed for %s, treating destination as empty: %v", id, err)
			existing = nil
		}
	}

	known := make(map[string]bool, len(existing))
	for _, k := range existing {
		known[k] = true
	}

	var rows [][]interface{}
	for i := range batch {
		if known[batch[i].ListingID] {
			continue
		}
		rows = append(rows, batch[i].Row())
	}

	if len(rows) == 0 {
		return &Result{SheetID: id}, nil
	}

	if err := s.api.Append(ctx, id, dataRange, rows); err != nil {
		return nil, err
	}

	totalRows := 1 + len(existing) + len(rows)
	if err := s.api.BatchFormat(ctx, id, formatRequests(int64(totalRows))); err != nil {
		return nil, err
	}

	return &Result{SheetID: id, NewCount: len(rows)}, nil
}

// fullReplace rewrites the destination from scratch. It is only valid
// for destinations that have never been append-synced: running it over
// accumulated rows the input does not include would silently lose them,
// so a non-empty identity column is refused outright.
func (s *Synchronizer) fullReplace(ctx context.Context, id string, batch []models.Listing, created bool) (*Result, error) {
	if !created {
		existing, err := s.readOracle(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("verify destination is empty: %w", err)
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("destination %s already holds %d appended rows, refusing full replace", id, len(existing))
		}
	}

	if err := s.api.Clear(ctx, id, fullRange); err != nil {
		return nil, err
	}

	values := make([][]interface{}, 0, len(batch)+1)
	values = append(values, headerRow())
	for i := range batch {
		values = append(values, batch[i].Row())
	}

	if err := s.api.Update(ctx, id, originCell, values); err != nil {
		return nil, err
	}

	if err := s.api.BatchFormat(ctx, id, formatRequests(int64(len(batch)+1))); err != nil {
		return nil, err
	}

	return &Result{SheetID: id, NewCount: len(batch)}, nil
}

// readOracle fetches the identity column, the set of listing ids already
// recorded at the destination.
func (s *Synchronizer) readOracle(ctx context.Context, id string) ([]string, error) {
	values, err := s.api.ReadRange(ctx, id, identityRange)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		if v, ok := row[0].(string); ok && v != "" {
			ids = append(ids, v)
		}
	}
	return ids, nil
}

// SpreadsheetIDFromRef accepts either a full spreadsheet URL or a bare
// spreadsheet id. An empty ref means no destination exists yet.
func SpreadsheetIDFromRef(ref string) string {
	if ref == "" {
		return ""
	}
	if m := sheetURLRegex.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	return ref
}

func headerRow() []interface{} {
	row := make([]interface{}, len(models.Header))
	for i, h := range models.Header {
		row[i] = h
	}
	return row
}
