// Package grid holds the ordered row store behind the ledger grid.
// It performs no validation: any column name and any text can be stored.
package grid

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
)

// End is the insert index that appends a row after the current last row.
const End = -1

type row struct {
	label  string
	values map[string]string
}

// Store is a flat, ordered collection of rows addressed by ID and column name.
// Rows are always siblings at the root; the zero value is not usable, call New.
//
// Store is not safe for concurrent use. Callers serialize access.
type Store struct {
	order []string
	rows  map[string]*row
}

// New returns an empty Store.
func New() *Store {
	return &Store{rows: make(map[string]*row)}
}

// Insert adds an empty row at index and returns its ID.
// An index of End, or one past the last row, appends; a negative index other
// than End inserts at the head.
func (s *Store) Insert(index int) string {
	id := uuid.New().String()
	s.rows[id] = &row{values: make(map[string]string)}

	switch {
	case index == End || index >= len(s.order):
		s.order = append(s.order, id)
	case index <= 0:
		s.order = append([]string{id}, s.order...)
	default:
		s.order = append(s.order, "")
		copy(s.order[index+1:], s.order[index:])
		s.order[index] = id
	}
	return id
}

// InsertValues inserts a row at index and writes every non-empty value by column name.
func (s *Store) InsertValues(index int, values map[string]string) string {
	id := s.Insert(index)
	r := s.rows[id]
	for col, v := range values {
		if v != "" {
			r.values[col] = v
		}
	}
	return id
}

// Get returns the value of one cell. Unset cells read as "".
func (s *Store) Get(id, column string) (string, error) {
	r, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	return r.values[column], nil
}

// GetAll returns a copy of every non-empty value of the row.
// An empty map signals a blank separator row.
func (s *Store) GetAll(id string) (map[string]string, error) {
	r, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return maps.Clone(r.values), nil
}

// Set writes one cell. Writing "" removes the value.
func (s *Store) Set(id, column, value string) error {
	r, err := s.lookup(id)
	if err != nil {
		return err
	}
	if value == "" {
		delete(r.values, column)
		return nil
	}
	r.values[column] = value
	return nil
}

// Label returns the row label text.
func (s *Store) Label(id string) (string, error) {
	r, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	return r.label, nil
}

// SetLabel writes the row label text.
func (s *Store) SetLabel(id, text string) error {
	r, err := s.lookup(id)
	if err != nil {
		return err
	}
	r.label = text
	return nil
}

// IsBlank reports whether the row holds no values.
func (s *Store) IsBlank(id string) (bool, error) {
	r, err := s.lookup(id)
	if err != nil {
		return false, err
	}
	return len(r.values) == 0, nil
}

// Children returns the row IDs in display order. The slice is a copy.
func (s *Store) Children() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Index returns the display position of a row.
func (s *Store) Index(id string) (int, error) {
	for i, v := range s.order {
		if v == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", apperrors.ErrRowNotFound, id)
}

// Len returns the number of rows, blank rows included.
func (s *Store) Len() int {
	return len(s.order)
}

// Clear removes every row. IDs issued before the call are no longer valid.
func (s *Store) Clear() {
	s.order = nil
	s.rows = make(map[string]*row)
}

// Rows returns a copy of every row in display order.
func (s *Store) Rows() []model.Row {
	out := make([]model.Row, 0, len(s.order))
	for _, id := range s.order {
		r := s.rows[id]
		out = append(out, model.Row{
			ID:     id,
			Label:  r.label,
			Values: maps.Clone(r.values),
			Blank:  len(r.values) == 0,
		})
	}
	return out
}

func (s *Store) lookup(id string) (*row, error) {
	r, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRowNotFound, id)
	}
	return r, nil
}
