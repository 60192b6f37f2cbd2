// SPDX-License-Identifier: EPL-2.0

package tape

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func collect(l *SliceList) []Slice { return slices.Collect(l.All()) }

func TestSliceList_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []Slice
		want []Slice
	}{
		{"single", []Slice{{10, 20}}, []Slice{{10, 20}}},
		{"sorted on insert", []Slice{{50, 60}, {10, 20}, {30, 40}}, []Slice{{10, 20}, {30, 40}, {50, 60}}},
		{"overlap merges", []Slice{{10, 20}, {15, 30}}, []Slice{{10, 30}}},
		{"touching merges", []Slice{{10, 20}, {20, 30}}, []Slice{{10, 30}}},
		{"bridge", []Slice{{0, 10}, {20, 30}, {40, 50}, {5, 45}}, []Slice{{0, 50}}},
		{"contained", []Slice{{0, 100}, {40, 50}}, []Slice{{0, 100}}},
		{"empty ignored", []Slice{{10, 20}, {30, 30}, {50, 40}}, []Slice{{10, 20}}},
		{"gap kept", []Slice{{0, 10}, {11, 20}}, []Slice{{0, 10}, {11, 20}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewSliceList(tt.in...)
			if got := collect(l); !slices.Equal(got, tt.want) {
				t.Errorf("slices = %v, want %v", got, tt.want)
			}
			if !l.valid() {
				t.Errorf("invalid list %v", collect(l))
			}
		})
	}
}

func TestSliceList_Overlapping(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{0, 10}, Slice{20, 30}, Slice{40, 50}, Slice{60, 70})

	tests := []struct {
		r    Slice
		want []Slice
	}{
		{Slice{0, 100}, []Slice{{0, 10}, {20, 30}, {40, 50}, {60, 70}}},
		{Slice{25, 45}, []Slice{{20, 30}, {40, 50}}},
		{Slice{10, 20}, nil},
		{Slice{9, 21}, []Slice{{0, 10}, {20, 30}}},
		{Slice{70, 80}, nil},
		{Slice{35, 35}, nil},
		{Slice{-50, 1}, []Slice{{0, 10}}},
	}

	for _, tt := range tests {
		got := slices.Collect(l.Overlapping(tt.r))
		if !slices.Equal(got, tt.want) {
			t.Errorf("Overlapping(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}

	// Stopping early.
	for s := range l.Overlapping(Slice{0, 100}) {
		if s != (Slice{0, 10}) {
			t.Errorf("first yielded slice = %v", s)
		}
		break
	}

	var empty *SliceList
	if got := slices.Collect(empty.Overlapping(Slice{0, 10})); len(got) != 0 {
		t.Errorf("nil list yielded %v", got)
	}
}

func TestSliceList_Current(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{10, 20}, Slice{20, 30}, Slice{40, 50})
	l = l.Cut(20)

	tests := []struct {
		pos  int
		want Slice
		ok   bool
	}{
		{9, Slice{}, false},
		{10, Slice{10, 20}, true},
		{19, Slice{10, 20}, true},
		{20, Slice{20, 30}, true},
		{30, Slice{}, false},
		{45, Slice{40, 50}, true},
		{50, Slice{}, false},
		{-1, Slice{}, false},
	}

	for _, tt := range tests {
		got, ok := l.Current(tt.pos)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Current(%d) = %v, %v; want %v, %v", tt.pos, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSliceList_Span(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{10, 20}, Slice{40, 50})

	if s, ok := l.span(15); !ok || s != (Slice{10, 20}) {
		t.Errorf("span(15) = %v, %v", s, ok)
	}
	if s, ok := l.span(30); ok || s != (Slice{20, 40}) {
		t.Errorf("span(30) = %v, %v; want gap [20, 40)", s, ok)
	}
	if s, ok := l.span(5); ok || s.Out != 10 || !s.Contains(-1000) {
		t.Errorf("span(5) = %v, %v; want open gap before 10", s, ok)
	}
	if s, ok := l.span(60); ok || s.In != 50 || !s.Contains(1<<40) {
		t.Errorf("span(60) = %v, %v; want open gap after 50", s, ok)
	}
}

func TestSliceList_Cut(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{10, 20}, Slice{30, 40})

	tests := []struct {
		name string
		pos  int
		want []Slice
		same bool
	}{
		{"middle", 15, []Slice{{10, 15}, {15, 20}, {30, 40}}, false},
		{"last slice", 39, []Slice{{10, 20}, {30, 39}, {39, 40}}, false},
		{"at start", 10, []Slice{{10, 20}, {30, 40}}, true},
		{"at end", 20, []Slice{{10, 20}, {30, 40}}, true},
		{"in gap", 25, []Slice{{10, 20}, {30, 40}}, true},
		{"past end", 100, []Slice{{10, 20}, {30, 40}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := l.Cut(tt.pos)
			if !slices.Equal(collect(got), tt.want) {
				t.Errorf("Cut(%d) = %v, want %v", tt.pos, collect(got), tt.want)
			}
			if (got == l) != tt.same {
				t.Errorf("Cut(%d) returned the same list: %v, want %v", tt.pos, got == l, tt.same)
			}
		})
	}

	if !slices.Equal(collect(l), []Slice{{10, 20}, {30, 40}}) {
		t.Errorf("original list modified: %v", collect(l))
	}
}

func TestSliceList_CutAtBoundaryIsNoOp(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{0, 100}).Cut(50)
	if again := l.Cut(50); again != l {
		t.Errorf("second Cut(50) = %v, want no change", collect(again))
	}
}

func TestSliceList_Glue(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{0, 100}).Cut(30).Cut(60)

	glued := l.Glue(30)
	if got := collect(glued); !slices.Equal(got, []Slice{{0, 60}, {60, 100}}) {
		t.Errorf("Glue(30) = %v", got)
	}
	if got := collect(glued.Glue(60)); !slices.Equal(got, []Slice{{0, 100}}) {
		t.Errorf("Glue(60) = %v", got)
	}

	for _, pos := range []int{0, 15, 100, 200} {
		if l.Glue(pos) != l {
			t.Errorf("Glue(%d) changed the list", pos)
		}
	}

	apart := NewSliceList(Slice{0, 10}, Slice{20, 30})
	if apart.Glue(20) != apart || apart.Glue(10) != apart {
		t.Error("Glue joined slices that do not meet")
	}
}

func TestSliceList_Remove(t *testing.T) {
	t.Parallel()

	l := NewSliceList(Slice{0, 10}, Slice{20, 30}, Slice{40, 50})

	tests := []struct {
		r    Slice
		want []Slice
	}{
		{Slice{20, 30}, []Slice{{0, 10}, {40, 50}}},
		{Slice{5, 45}, []Slice{{0, 5}, {45, 50}}},
		{Slice{22, 25}, []Slice{{0, 10}, {20, 22}, {25, 30}, {40, 50}}},
		{Slice{0, 50}, nil},
		{Slice{10, 20}, []Slice{{0, 10}, {20, 30}, {40, 50}}},
	}

	for _, tt := range tests {
		got := l.Remove(tt.r)
		if !slices.Equal(collect(got), tt.want) {
			t.Errorf("Remove(%v) = %v, want %v", tt.r, collect(got), tt.want)
		}
		if !got.valid() {
			t.Errorf("Remove(%v) produced invalid list %v", tt.r, collect(got))
		}
	}
}

// TestSliceList_RandomEdits runs long chains of edits and checks the list
// stays sorted and free of overlaps, and that covered positions match a
// plain bitmap model.
func TestSliceList_RandomEdits(t *testing.T) {
	t.Parallel()

	const size = 300
	r := rand.New(rand.NewPCG(1, 2))

	for run := range 20 {
		var l *SliceList
		var model [size]bool

		for step := range 200 {
			a := r.IntN(size)
			b := min(a+r.IntN(40), size)
			pos := r.IntN(size)

			switch r.IntN(4) {
			case 0:
				l = l.Insert(Slice{a, b})
				for i := a; i < b; i++ {
					model[i] = true
				}
			case 1:
				l = l.Remove(Slice{a, b})
				for i := a; i < b; i++ {
					model[i] = false
				}
			case 2:
				cut := l.Cut(pos)
				if again := cut.Cut(pos); again != cut {
					t.Fatalf("run %d step %d: cutting twice at %d changed the list", run, step, pos)
				}
				l = cut
			case 3:
				l = l.Glue(pos)
			}

			if !l.valid() {
				t.Fatalf("run %d step %d: invalid list %v", run, step, collect(l))
			}
			for i := range size {
				if _, ok := l.Current(i); ok != model[i] {
					t.Fatalf("run %d step %d: position %d covered = %v, want %v", run, step, i, ok, model[i])
				}
			}
		}
	}
}

func BenchmarkSliceList_Current(b *testing.B) {
	var l *SliceList
	for i := range 1000 {
		l = l.Insert(Slice{i * 100, i*100 + 50})
	}

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		l.Current(i % 100000)
		i += 37
	}
}
