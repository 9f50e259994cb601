package models

// StateRecord is the persisted JSON document tracking the last-known SAT test
// dates and check metadata. Its shape is a wire contract shared with external
// monitor programs, so field names and order are fixed.
type StateRecord struct {
	Timestamp     string   `json:"timestamp"`
	LastModified  string   `json:"last_modified"`
	TestDateCount int      `json:"test_date_count"`
	TestDates     []string `json:"test_dates"`
}

// NewDefaultStateRecord returns the record a fresh deployment starts from.
func NewDefaultStateRecord() StateRecord {
	return StateRecord{
		Timestamp:     "",
		LastModified:  "",
		TestDateCount: 0,
		TestDates:     []string{},
	}
}

// Equal reports whether two records carry identical content.
func (s StateRecord) Equal(other StateRecord) bool {
	if s.Timestamp != other.Timestamp ||
		s.LastModified != other.LastModified ||
		s.TestDateCount != other.TestDateCount ||
		len(s.TestDates) != len(other.TestDates) {
		return false
	}
	for i := range s.TestDates {
		if s.TestDates[i] != other.TestDates[i] {
			return false
		}
	}
	return true
}
