// Package schema translates draft field names into the persisted column
// vocabulary and filters out anything the bookings table does not know.
package schema

import (
	"sort"

	"github.com/Domenick1991/travelbackoffice/config"
	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/rs/zerolog"
)

type Mapper struct {
	version int
	table   string
	columns map[string]struct{}
	renames map[string]string
	reverse map[string]string
	logger  zerolog.Logger
}

func NewMapper(s *config.Schema, logger zerolog.Logger) *Mapper {
	m := &Mapper{
		version: s.Version,
		table:   s.Table,
		columns: make(map[string]struct{}, len(s.Columns)),
		renames: make(map[string]string, len(s.Renames)),
		reverse: make(map[string]string, len(s.Renames)),
		logger:  logger.With().Str("component", "schema_mapper").Int("schema_version", s.Version).Logger(),
	}
	for _, c := range s.Columns {
		m.columns[c] = struct{}{}
	}
	for from, to := range s.Renames {
		m.renames[from] = to
		m.reverse[to] = from
	}
	return m
}

func (m *Mapper) Table() string {
	return m.table
}

func (m *Mapper) Version() int {
	return m.version
}

// Columns returns the allow-list in sorted order.
func (m *Mapper) Columns() []string {
	out := make([]string, 0, len(m.columns))
	for c := range m.columns {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Map renames draft fields to columns, drops fields the schema does not
// allow (logging a warning), then drops empty values. It never fails: schema
// drift must not block a save. The dropped unknown field names are returned.
func (m *Mapper) Map(rec domain.Record) (domain.Record, []string) {
	out := make(domain.Record, len(rec))
	var dropped []string

	for field, value := range rec {
		column := field
		if renamed, ok := m.renames[field]; ok {
			column = renamed
		}
		if _, ok := m.columns[column]; !ok {
			m.logger.Warn().Str("field", field).Str("column", column).Msg("field not in persisted schema, dropping")
			dropped = append(dropped, field)
			continue
		}
		if isEmpty(value) {
			continue
		}
		out[column] = value
	}

	sort.Strings(dropped)
	return out, dropped
}

// Unmap turns a stored row back into draft field names.
func (m *Mapper) Unmap(row domain.Record) domain.Record {
	out := make(domain.Record, len(row))
	for column, value := range row {
		if field, ok := m.reverse[column]; ok {
			out[field] = value
			continue
		}
		out[column] = value
	}
	return out
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case *string:
		return val == nil || *val == ""
	}
	return false
}
