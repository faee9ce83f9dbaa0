package domain

import "time"

// Value is the binary judgment a user passes on a question/answer pair.
type Value string

const (
	ValueYes Value = "yes"
	ValueNo  Value = "no"
)

// Valid reports whether v is one of the two accepted vote values.
func (v Value) Valid() bool {
	return v == ValueYes || v == ValueNo
}

// Vote is a single persisted feedback record. JSON field order mirrors the
// column order of the votes relation.
type Vote struct {
	ID             int64     `json:"id"`
	UserQuery      string    `json:"user_query"`
	BotResponse    string    `json:"bot_response"`
	EvaluationJSON string    `json:"evaluation_json"`
	Vote           Value     `json:"vote"`
	Comment        string    `json:"comment"`
	Timestamp      time.Time `json:"timestamp"`
}

// FetchQuery describes an optional filter/pagination request over the votes
// relation. All filters are optional and combine with logical AND.
//
// Limit is a pointer because "no limit" and "limit 0" mean different things:
// a nil Limit returns every matching row and Offset is ignored.
type FetchQuery struct {
	Limit     *int
	Offset    int
	Vote      string
	StartDate string
	EndDate   string
}

// WithLimit returns a copy of q with the limit set.
func (q FetchQuery) WithLimit(n int) FetchQuery {
	q.Limit = &n
	return q
}
