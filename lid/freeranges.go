package lid

// FreeRanges is the ordered, disjoint list of LID ranges available for new
// allocation. Invariants: non-empty ranges, strictly ascending order, no
// overlaps, no adjacency (adjacent ranges are merged on insert). A plain
// ordered slice suffices — N tends to be small and the list is rebuilt
// once per sweep (spec §9).
type FreeRanges struct {
	ranges []Range
}

// NewFreeRanges returns an empty free-range list.
func NewFreeRanges() *FreeRanges {
	return &FreeRanges{}
}

// Reset empties the list, ready for a new sweep.
func (f *FreeRanges) Reset() {
	f.ranges = f.ranges[:0]
}

// Ranges returns the current ranges in ascending order. The caller must
// not mutate the returned slice.
func (f *FreeRanges) Ranges() []Range {
	return f.ranges
}

// Insert adds r to the list in order, merging with an adjacent or
// overlapping neighbor where required. Used by the Sweep Initializer,
// which appends ranges in ascending LID order as it walks the LID space,
// so the common case is an append-or-extend onto the tail.
func (f *FreeRanges) Insert(r Range) {
	if r.Len() <= 0 {
		return
	}
	out := make([]Range, 0, len(f.ranges)+1)
	i := 0
	for ; i < len(f.ranges) && int(f.ranges[i].Max)+1 < int(r.Min); i++ {
		out = append(out, f.ranges[i])
	}
	for ; i < len(f.ranges) && int(f.ranges[i].Min) <= int(r.Max)+1; i++ {
		if f.ranges[i].Min < r.Min {
			r.Min = f.ranges[i].Min
		}
		if f.ranges[i].Max > r.Max {
			r.Max = f.ranges[i].Max
		}
	}
	out = append(out, r)
	f.ranges = append(out, f.ranges[i:]...)
}

// Exclude removes every LID in r from the list, splitting or shrinking
// any range that overlaps it. Step A and Step B resolutions hand a port
// a LID outside the normal Take path, so the caller excludes that range
// afterward to keep the free list from offering the same LID twice in
// one sweep.
func (f *FreeRanges) Exclude(r Range) {
	var out []Range
	for _, cur := range f.ranges {
		if !cur.Overlaps(r) {
			out = append(out, cur)
			continue
		}
		if cur.Min < r.Min {
			out = append(out, Range{Min: cur.Min, Max: r.Min - 1})
		}
		if cur.Max > r.Max {
			out = append(out, Range{Min: r.Max + 1, Max: cur.Max})
		}
	}
	f.ranges = out
}

// Take finds the first range that can satisfy n LIDs under the given
// alignment mask, shrinks or removes it, and returns the allocated range.
// Implements the Free-Range Search of spec §4.3. ok is false if no range
// is wide enough (LID exhaustion).
func (f *FreeRanges) Take(n int, mask LID) (Range, bool) {
	for i := range f.ranges {
		r := f.ranges[i]
		start := r.Min
		if n > 1 {
			start = AlignUp(r.Min, mask, n)
		}
		if int(start)+n-1 > int(r.Max) {
			continue
		}
		selected := Range{Min: start, Max: start + LID(n) - 1}

		if selected.Max == r.Max {
			f.ranges = append(f.ranges[:i], f.ranges[i+1:]...)
		} else {
			f.ranges[i].Min = selected.Max + 1
		}
		return selected, true
	}
	return Range{}, false
}
