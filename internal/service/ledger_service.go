package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/csvio"
	"github.com/silver-potato-kebab/trade-tracker/internal/editor"
	"github.com/silver-potato-kebab/trade-tracker/internal/grid"
	"github.com/silver-potato-kebab/trade-tracker/internal/ledger"
	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// LedgerService owns the grid, its editor and the aggregation engine.
//
// All methods take one lock, so every HTTP request is one event on a single
// logical thread of control: an import or recompute runs to completion before
// the next request touches the grid.
type LedgerService struct {
	mu       sync.Mutex
	store    *grid.Store
	editor   *editor.Editor
	kinds    map[string]validation.Kind
	report   model.AggregationReport
	onStatus func()
}

// LedgerOption configures a LedgerService.
type LedgerOption func(*ledgerOptions)

type ledgerOptions struct {
	renderer editor.Renderer
	onStatus func()
}

// WithRenderer supplies cell geometry for edit sessions.
func WithRenderer(r editor.Renderer) LedgerOption {
	return func(o *ledgerOptions) {
		o.renderer = r
	}
}

// WithStatusCallback registers a function run after every commit and every
// successful import or restore. It runs with the ledger locked and must not
// call back into the service.
func WithStatusCallback(fn func()) LedgerOption {
	return func(o *ledgerOptions) {
		o.onStatus = fn
	}
}

// NewLedgerService creates an empty ledger whose editor validates keystrokes
// with kinds. An unknown kind returns *apperrors.ConfigurationError.
func NewLedgerService(kinds map[string]validation.Kind, opts ...LedgerOption) (*LedgerService, error) {
	var o ledgerOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &LedgerService{
		store:    grid.New(),
		kinds:    kinds,
		onStatus: o.onStatus,
		report:   emptyReport(),
	}

	editorOpts := []editor.Option{
		editor.WithKinds(kinds),
		editor.WithCommitCallback(s.status),
	}
	if o.renderer != nil {
		editorOpts = append(editorOpts, editor.WithRenderer(o.renderer))
	}

	ed, err := editor.New(s.store, model.GridColumns, editorOpts...)
	if err != nil {
		return nil, err
	}
	s.editor = ed
	return s, nil
}

func emptyReport() model.AggregationReport {
	return model.AggregationReport{Lots: []model.LotSummary{}, Warnings: []model.Warning{}}
}

func (s *LedgerService) status() {
	if s.onStatus != nil {
		s.onStatus()
	}
}

// Kinds returns the column validation kinds of the grid.
func (s *LedgerService) Kinds() map[string]validation.Kind {
	return s.kinds
}

// Columns returns the data columns in display order.
func (s *LedgerService) Columns() []string {
	return slices.Clone(model.GridColumns)
}

// Rows returns every grid row in display order.
func (s *LedgerService) Rows() []model.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Rows()
}

// AddEntry inserts a manually entered fill at the head of the grid.
// The request is expected to be validated already.
func (s *LedgerService) AddEntry(ctx context.Context, record model.TradeRecord) (model.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.store.InsertValues(0, record.Fields())
	values, err := s.store.GetAll(id)
	if err != nil {
		return model.Row{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToAddEntry, err)
	}

	logging.Event(ctx, "entry_added", "row_id", id, "ticker", record.Ticker)
	return model.Row{ID: id, Values: values, Blank: len(values) == 0}, nil
}

// Import replaces the grid with the records of a ledger CSV file.
//
// The file is decoded and its header checked before the grid is touched. A
// blank separator row is inserted between records whose open_date differs,
// then the aggregation engine runs once over the populated grid. Records with
// every field empty add no row and are counted in ImportReport.Skipped.
//
// Failure Modes:
//   - *apperrors.CSVStructureError when headers are missing (grid unchanged)
//   - apperrors.ErrEditSessionOpen while an edit is open (grid unchanged)
//   - *apperrors.AggregationError or *apperrors.SequenceError from the engine;
//     the rows stay imported without aggregates
func (s *LedgerService) Import(ctx context.Context, r io.Reader) (model.ImportReport, error) {
	op := logging.StartOperation(ctx, "ledger.import")

	records, err := csvio.Read(r)
	if err != nil {
		op.EndWithError(err)
		return model.ImportReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editor.Active() {
		op.EndWithError(apperrors.ErrEditSessionOpen)
		return model.ImportReport{}, apperrors.ErrEditSessionOpen
	}

	s.store.Clear()
	s.report = emptyReport()

	report := model.ImportReport{Warnings: []model.Warning{}}
	prevDate := ""
	for _, rec := range records {
		if rec.IsEmpty() {
			report.Skipped++
			continue
		}
		if report.Records > 0 && rec.OpenDate != prevDate {
			s.store.Insert(grid.End)
			report.Separators++
		}
		s.store.InsertValues(grid.End, rec.Fields())
		prevDate = rec.OpenDate
		report.Records++
	}

	agg, err := s.recompute(op.Context())
	if err != nil {
		op.EndWithError(err, "records", report.Records)
		return report, err
	}
	report.Lots = len(agg.Lots)
	report.Warnings = agg.Warnings

	op.End("records", report.Records, "skipped", report.Skipped, "separators", report.Separators, "lots", report.Lots)
	s.status()
	return report, nil
}

// Export writes the grid as a ledger CSV file in reverse display order.
// Rows without any exported value, blank separators included, are skipped.
func (s *LedgerService) Export(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	rows := s.store.Rows()
	s.mu.Unlock()

	records := make([]model.TradeRecord, 0, len(rows))
	for _, r := range slices.Backward(rows) {
		rec := model.TradeRecordFromFields(r.Values)
		if rec.IsEmpty() {
			continue
		}
		records = append(records, rec)
	}

	if err := csvio.Write(w, records); err != nil {
		logging.ErrorWithErr(ctx, "Ledger export failed", err)
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToExportLedger, err)
	}

	logging.Event(ctx, "ledger_exported", "records", len(records))
	return nil
}

// Recompute runs the aggregation engine over the whole grid.
func (s *LedgerService) Recompute(ctx context.Context) (model.AggregationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recompute(ctx)
}

func (s *LedgerService) recompute(ctx context.Context) (model.AggregationReport, error) {
	report, err := ledger.RecomputeAll(s.store)
	if err != nil {
		logging.ErrorWithErr(ctx, "Recompute failed", err)
		return model.AggregationReport{}, err
	}

	s.report = report
	for _, w := range report.Warnings {
		logging.Warn(ctx, "Lot computed with warning", "row_id", w.RowID, "field", w.Field, "message", w.Message)
	}
	logging.Event(ctx, "ledger_recomputed", "lots", len(report.Lots), "warnings", len(report.Warnings))
	return report, nil
}

// Lots returns the report of the last successful recompute.
func (s *LedgerService) Lots() model.AggregationReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.report
}

// Replace clears the grid and inserts rows in order, keeping labels and every
// stored value. It is refused while an edit session is open.
func (s *LedgerService) Replace(ctx context.Context, rows []model.SnapshotRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editor.Active() {
		return apperrors.ErrEditSessionOpen
	}

	s.store.Clear()
	s.report = emptyReport()
	for _, r := range rows {
		id := s.store.InsertValues(grid.End, r.Values)
		if r.Label != "" {
			if err := s.store.SetLabel(id, r.Label); err != nil {
				return err
			}
		}
	}

	logging.Event(ctx, "ledger_replaced", "rows", len(rows))
	s.status()
	return nil
}

// EditSession returns the open edit session, if any.
func (s *LedgerService) EditSession() (editor.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editor.Session()
}

// OpenEditor handles a double-click. A session already open is discarded
// first. The bool is false when the click opens nothing.
func (s *LedgerService) OpenEditor(ctx context.Context, click editor.Click) (editor.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.editor.Session(); ok {
		logging.Debug(ctx, "Discarding open edit session", "row_id", prev.RowID, "column", prev.Column)
	}

	session, opened, err := s.editor.DoubleClick(click)
	if err != nil {
		return editor.Session{}, false, err
	}
	if opened {
		logging.Debug(ctx, "Edit session opened", "row_id", session.RowID, "column", session.Column)
	}
	return session, opened, nil
}

// Keystroke offers the prospective full text of the edit field.
func (s *LedgerService) Keystroke(text string) (editor.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editor.Keystroke(text)
}

// CommitEdit writes the edit field into the grid and closes the session.
func (s *LedgerService) CommitEdit(ctx context.Context) (editor.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	commit, err := s.editor.Enter()
	if err != nil {
		return editor.Commit{}, err
	}

	column := s.editor.ColumnName(commit.Column)
	if column == "" {
		column = "label"
	}
	logging.Event(ctx, "edit_committed", "row_id", commit.RowID, "column", column, "value", commit.Value)
	return commit, nil
}

// DiscardEdit closes the session without writing. It reports whether one was open.
func (s *LedgerService) DiscardEdit(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := s.editor.FocusOut()
	if open {
		logging.Debug(ctx, "Edit session discarded")
	}
	return open
}
