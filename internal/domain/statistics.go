package domain

// Statistics is the aggregate view over all recorded votes. VotesPerDay maps
// calendar dates (YYYY-MM-DD) to counts over the trailing 30-day window; days
// without votes are absent from the map.
type Statistics struct {
	TotalVotes        int            `json:"total_votes"`
	YesVotes          int            `json:"yes_votes"`
	NoVotes           int            `json:"no_votes"`
	YesPercentage     float64        `json:"yes_percentage"`
	NoPercentage      float64        `json:"no_percentage"`
	VotesWithComments int            `json:"votes_with_comments"`
	VotesPerDay       map[string]int `json:"votes_per_day"`
}

// EmptyStatistics returns the zero-valued statistics shape. The statistics
// path never fails toward callers, so this is also the degraded result when
// the backing store is unreachable.
func EmptyStatistics() Statistics {
	return Statistics{VotesPerDay: map[string]int{}}
}

// NewStatistics assembles a Statistics from raw counts, deriving the
// percentages and guarding the zero-total case.
func NewStatistics(total, yes, no, withComments int, perDay map[string]int) Statistics {
	s := Statistics{
		TotalVotes:        total,
		YesVotes:          yes,
		NoVotes:           no,
		VotesWithComments: withComments,
		VotesPerDay:       perDay,
	}
	if s.VotesPerDay == nil {
		s.VotesPerDay = map[string]int{}
	}
	if total > 0 {
		s.YesPercentage = float64(yes) / float64(total) * 100
		s.NoPercentage = float64(no) / float64(total) * 100
	}
	return s
}
