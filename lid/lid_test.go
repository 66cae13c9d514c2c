package lid

import "testing"

func TestAlignMask(t *testing.T) {
	cases := []struct {
		lmc  uint8
		want LID
	}{
		{0, 0xFFFF},
		{1, 0xFFFE},
		{2, 0xFFFC},
		{7, 0xFF80},
	}
	for _, tc := range cases {
		if got := AlignMask(tc.lmc); got != tc.want {
			t.Errorf("AlignMask(%d) = %#x, want %#x", tc.lmc, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	mask := AlignMask(2) // N=4
	cases := []struct {
		name       string
		lo         LID
		n          int
		maxUnicast LID
		want       bool
	}{
		{"aligned in range", 4, 4, 0x00FF, true},
		{"misaligned", 6, 4, 0x00FF, false},
		{"below N", 0, 4, 0x00FF, false},
		{"past ceiling", 0x100, 4, 0x00FF, false},
		{"lmc0 any base", 5, 1, 0x00FF, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Valid(tc.lo, tc.n, mask, tc.maxUnicast)
			if got != tc.want {
				t.Errorf("Valid(%#x, %d) = %v, want %v", tc.lo, tc.n, got, tc.want)
			}
		})
	}
}

func TestUsedLIDs_OutOfRangeIsFree(t *testing.T) {
	u := NewUsedLIDs()
	if u.IsUsed(42) {
		t.Fatal("unmarked LID past end should be free")
	}
	u.Mark(42)
	if !u.IsUsed(42) {
		t.Fatal("marked LID should be used")
	}
	u.Clear(42)
	if u.IsUsed(42) {
		t.Fatal("cleared LID should be free")
	}
}

func TestUsedLIDs_Reset(t *testing.T) {
	u := NewUsedLIDs()
	u.MarkRange(Range{Min: 4, Max: 7})
	u.Reset()
	for l := LID(4); l <= 7; l++ {
		if u.IsUsed(l) {
			t.Fatalf("LID %d should be free after reset", l)
		}
	}
	if u.Len() == 0 {
		t.Fatal("reset should not shrink backing storage")
	}
}

func TestFreeRanges_TakeExact(t *testing.T) {
	f := NewFreeRanges()
	f.Insert(Range{Min: 12, Max: 0xFE})

	got, ok := f.Take(4, AlignMask(2))
	if !ok {
		t.Fatal("expected a free range")
	}
	want := Range{Min: 12, Max: 15}
	if got != want {
		t.Fatalf("Take() = %+v, want %+v", got, want)
	}

	remaining := f.Ranges()
	if len(remaining) != 1 || remaining[0].Min != 16 {
		t.Fatalf("unexpected remaining ranges: %+v", remaining)
	}
}

func TestFreeRanges_TakeAlignsUp(t *testing.T) {
	f := NewFreeRanges()
	f.Insert(Range{Min: 6, Max: 0xFE}) // 6 is not 4-aligned

	got, ok := f.Take(4, AlignMask(2))
	if !ok {
		t.Fatal("expected a free range")
	}
	if got.Min != 8 {
		t.Fatalf("Take() should align up to 8, got %+v", got)
	}
}

func TestFreeRanges_Exhaustion(t *testing.T) {
	f := NewFreeRanges()
	f.Insert(Range{Min: 4, Max: 7})

	if _, ok := f.Take(4, AlignMask(2)); !ok {
		t.Fatal("expected the first allocation to succeed")
	}
	if _, ok := f.Take(4, AlignMask(2)); ok {
		t.Fatal("expected exhaustion on the second allocation")
	}
}

func TestFreeRanges_ExcludeSplitsMiddle(t *testing.T) {
	f := NewFreeRanges()
	f.Insert(Range{Min: 1, Max: 10})
	f.Exclude(Range{Min: 4, Max: 6})

	got := f.Ranges()
	want := []Range{{Min: 1, Max: 3}, {Min: 7, Max: 10}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Exclude middle: got %+v, want %+v", got, want)
	}
}

func TestFreeRanges_ExcludeWholeRange(t *testing.T) {
	f := NewFreeRanges()
	f.Insert(Range{Min: 1, Max: 4})
	f.Exclude(Range{Min: 1, Max: 4})

	if got := f.Ranges(); len(got) != 0 {
		t.Fatalf("expected no ranges left, got %+v", got)
	}
}

func TestFreeRanges_InsertMergesAdjacent(t *testing.T) {
	f := NewFreeRanges()
	f.Insert(Range{Min: 1, Max: 3})
	f.Insert(Range{Min: 4, Max: 6})

	got := f.Ranges()
	if len(got) != 1 || got[0] != (Range{Min: 1, Max: 6}) {
		t.Fatalf("expected merged range, got %+v", got)
	}
}
