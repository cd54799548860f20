package mocks

import (
	"io"

	"github.com/iho/txreplay/internal/domain"
)

// MockRecordSource is a mock implementation of engine.RecordSource. By
// default it replays the queued records and ends with io.EOF; set NextFunc
// to override.
type MockRecordSource struct {
	records []domain.Record
	next    int

	NextFunc func() (domain.Record, error)
}

func NewMockRecordSource(records ...domain.Record) *MockRecordSource {
	return &MockRecordSource{records: records}
}

func (m *MockRecordSource) Next() (domain.Record, error) {
	if m.NextFunc != nil {
		return m.NextFunc()
	}

	if m.next >= len(m.records) {
		return domain.Record{}, io.EOF
	}

	rec := m.records[m.next]
	m.next++

	return rec, nil
}
