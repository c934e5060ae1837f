package date

// Range represents a range of dates, both boundaries included.
type Range struct{ From, To Date }

// NewRange returns the period p that contains d.
func NewRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// String returns "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
