// Package editor implements in-place cell editing over a grid.Store.
//
// An Editor is either idle or holds exactly one Session. A double-click on a
// row label or data cell opens a session pre-filled with the cell text;
// keystrokes are checked against the column's validation kind; Enter commits
// the text into the store and focus loss discards it.
package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/grid"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// Region is the part of the grid a click landed on.
type Region string

const (
	RegionTree    Region = "tree"
	RegionCell    Region = "cell"
	RegionHeading Region = "heading"
	RegionNothing Region = "nothing"
)

// Rect is a cell rectangle in screen coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Renderer reports where a cell is drawn so the edit field can cover it.
type Renderer interface {
	CellBox(rowID string, column int) Rect
}

// Click is a double-click already resolved by the renderer.
type Click struct {
	Region Region
	RowID  string
	Column int
}

// Session is the state of one open edit. Original is the cell text when the
// session opened; Text is the current content of the edit field.
type Session struct {
	RowID    string          `json:"rowId"`
	Column   int             `json:"column"`
	Original string          `json:"original"`
	Text     string          `json:"text"`
	Selected bool            `json:"selected"`
	Kind     validation.Kind `json:"kind,omitempty"`
	Box      Rect            `json:"box"`
}

// Commit describes the single cell written by Enter.
type Commit struct {
	RowID  string `json:"rowId"`
	Column int    `json:"column"`
	Value  string `json:"value"`
}

// Option configures an Editor.
type Option func(*Editor)

// WithKinds backs the edit field with the Field Validator, keyed by column name.
// Without it no keystroke is restricted.
func WithKinds(kinds map[string]validation.Kind) Option {
	return func(e *Editor) {
		e.kinds = kinds
	}
}

// WithRenderer sets the geometry source for edit fields.
func WithRenderer(r Renderer) Option {
	return func(e *Editor) {
		e.renderer = r
	}
}

// WithCommitCallback registers a function run after every successful commit.
func WithCommitCallback(fn func()) Option {
	return func(e *Editor) {
		e.onCommit = fn
	}
}

// Editor is the edit-in-place state machine for one grid.
// It is not safe for concurrent use.
type Editor struct {
	store    *grid.Store
	columns  []string
	kinds    map[string]validation.Kind
	renderer Renderer
	onCommit func()
	session  *Session
}

// New creates an idle Editor over store. columns maps data column indexes to
// names. A configured kind that the Field Validator does not know fails here
// with a ConfigurationError.
func New(store *grid.Store, columns []string, opts ...Option) (*Editor, error) {
	e := &Editor{
		store:   store,
		columns: columns,
	}
	for _, opt := range opts {
		opt(e)
	}

	for column, kind := range e.kinds {
		if _, ok := validation.ParseKind(string(kind)); !ok {
			return nil, &apperrors.ConfigurationError{Column: column, Kind: string(kind)}
		}
	}
	return e, nil
}

// Session returns a copy of the open session.
func (e *Editor) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

// Active reports whether a session is open.
func (e *Editor) Active() bool {
	return e.session != nil
}

// DoubleClick handles a double-click. A live session is discarded first, as
// the click takes focus from its edit field. Clicks on headings, empty space,
// out-of-range columns and data columns of blank rows open nothing and
// return false.
func (e *Editor) DoubleClick(c Click) (Session, bool, error) {
	e.session = nil

	if c.Region != RegionTree && c.Region != RegionCell {
		return Session{}, false, nil
	}

	column := c.Column
	if c.Region == RegionTree {
		column = model.LabelColumn
	}
	if column < model.LabelColumn || column >= len(e.columns) {
		return Session{}, false, nil
	}

	blank, err := e.store.IsBlank(c.RowID)
	if err != nil {
		return Session{}, false, err
	}
	if blank && column != model.LabelColumn {
		return Session{}, false, nil
	}

	text, err := e.read(c.RowID, column)
	if err != nil {
		return Session{}, false, err
	}

	s := &Session{
		RowID:    c.RowID,
		Column:   column,
		Original: text,
		Text:     text,
		Selected: true,
		Kind:     e.kindOf(column),
	}
	if e.renderer != nil {
		s.Box = e.renderer.CellBox(c.RowID, column)
	}

	e.session = s
	return *s, true, nil
}

// Keystroke offers the prospective full text of the edit field. Rejected text
// leaves the field as it was.
func (e *Editor) Keystroke(candidate string) (Session, error) {
	if e.session == nil {
		return Session{}, apperrors.ErrNoEditSession
	}
	if e.kinds != nil && !validation.Accepts(e.session.Kind, candidate) {
		return *e.session, fmt.Errorf("%w: %q is not a valid %s value", apperrors.ErrKeystrokeRejected, candidate, e.session.Kind)
	}

	e.session.Text = candidate
	e.session.Selected = false
	return *e.session, nil
}

// FocusOut discards the open session without writing anything.
// It reports whether a session was open.
func (e *Editor) FocusOut() bool {
	open := e.session != nil
	e.session = nil
	return open
}

// Enter commits the edit field into the store and closes the session.
// Text is trimmed; price columns are reformatted to 2 decimals, with
// unparsable text committed as "0.00".
func (e *Editor) Enter() (Commit, error) {
	if e.session == nil {
		return Commit{}, apperrors.ErrNoEditSession
	}
	s := *e.session
	e.session = nil

	value := strings.TrimSpace(s.Text)
	if s.Kind.IsPrice() {
		value = FormatPrice(value)
	}

	var err error
	if s.Column == model.LabelColumn {
		err = e.store.SetLabel(s.RowID, value)
	} else {
		err = e.store.Set(s.RowID, e.columns[s.Column], value)
	}
	if err != nil {
		return Commit{}, fmt.Errorf("failed to write cell: %w", err)
	}

	if e.onCommit != nil {
		e.onCommit()
	}

	return Commit{RowID: s.RowID, Column: s.Column, Value: value}, nil
}

// ColumnName returns the grid column for a data column index, or "" for the label.
func (e *Editor) ColumnName(column int) string {
	if column < 0 || column >= len(e.columns) {
		return ""
	}
	return e.columns[column]
}

func (e *Editor) read(rowID string, column int) (string, error) {
	if column == model.LabelColumn {
		return e.store.Label(rowID)
	}
	return e.store.Get(rowID, e.columns[column])
}

func (e *Editor) kindOf(column int) validation.Kind {
	if e.kinds == nil || column == model.LabelColumn {
		return validation.KindNone
	}
	return e.kinds[e.columns[column]]
}

// FormatPrice renders text as a 2-decimal price. Text that is not a number
// becomes "0.00". The shortest decimal form of the parsed value is rounded
// half away from zero, so "2.675" becomes "2.68".
func FormatPrice(text string) string {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}
