package lid

// UsedLIDs is a sparse, monotonically growing occupancy vector indexed by
// LID. It never shrinks within a sweep — only Reset zeroes it entirely
// (spec §5, "Shared resources"). An index past the end of the vector
// counts as free, matching the C implementation's cl_ptr_vector semantics
// where reads beyond the vector's high-water mark return NULL.
type UsedLIDs struct {
	marks []bool
}

// NewUsedLIDs returns an empty occupancy vector.
func NewUsedLIDs() *UsedLIDs {
	return &UsedLIDs{}
}

// Len reports the current high-water size of the vector (including the
// sentinel slot for LID 0), mirroring cl_ptr_vector_get_size.
func (u *UsedLIDs) Len() int {
	return len(u.marks)
}

func (u *UsedLIDs) grow(n int) {
	if n <= len(u.marks) {
		return
	}
	grown := make([]bool, n)
	copy(grown, u.marks)
	u.marks = grown
}

// Mark reserves l.
func (u *UsedLIDs) Mark(l LID) {
	u.grow(int(l) + 1)
	u.marks[l] = true
}

// MarkRange reserves every LID in r.
func (u *UsedLIDs) MarkRange(r Range) {
	for l := r.Min; l <= r.Max; l++ {
		u.Mark(l)
		if l == ^LID(0) {
			break
		}
	}
}

// Clear frees l.
func (u *UsedLIDs) Clear(l LID) {
	if int(l) < len(u.marks) {
		u.marks[l] = false
	}
}

// ClearRange frees every LID in r.
func (u *UsedLIDs) ClearRange(r Range) {
	for l := r.Min; l <= r.Max; l++ {
		u.Clear(l)
		if l == ^LID(0) {
			break
		}
	}
}

// IsUsed reports whether l is reserved. A LID past the vector's current
// size is considered free (§4.3 Step B).
func (u *UsedLIDs) IsUsed(l LID) bool {
	if int(l) >= len(u.marks) {
		return false
	}
	return u.marks[l]
}

// Reset zeroes the entire vector without shrinking its backing storage.
func (u *UsedLIDs) Reset() {
	for i := range u.marks {
		u.marks[i] = false
	}
}
