// SPDX-License-Identifier: EPL-2.0

package cursor

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

var backAndForthData = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// backAndForth reads, advances three times, retreats twice and advances once,
// reading after every move.
func backAndForth(c Cursor[int]) []int {
	got := []int{c.Value()}
	for range 3 {
		c.Inc()
		got = append(got, c.Value())
	}
	for range 2 {
		c.Dec()
		got = append(got, c.Value())
	}
	c.Inc()
	return append(got, c.Value())
}

func TestCursor_BackAndForth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start int
		step  float64
		want  []int
	}{
		{name: "step 1", start: 0, step: 1, want: []int{0, 1, 2, 3, 2, 1, 2}},
		{name: "step -1", start: 10, step: -1, want: []int{10, 9, 8, 7, 8, 9, 8}},
		{name: "step 0.5", start: 0, step: 0.5, want: []int{0, 0, 1, 1, 1, 0, 1}},
		{name: "step -0.5", start: 10, step: -0.5, want: []int{10, 9, 9, 8, 9, 9, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(backAndForthData, tt.start, tt.step)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			got := backAndForth(c)
			if !slices.Equal(got, tt.want) {
				t.Errorf("back and forth = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCursor_DifferentSpeeds(t *testing.T) {
	t.Parallel()

	const size = 10
	data := make([]int, size)
	for i := range data {
		data[i] = i - size/2
	}

	tests := []struct {
		name  string
		start int
		step  float64
		count int
		index func(i int) int
	}{
		{name: "step 1", start: 0, step: 1, count: size, index: func(i int) int { return i }},
		{name: "step -1", start: size - 1, step: -1, count: size, index: func(i int) int { return size - 1 - i }},
		{name: "step 0.5", start: 0, step: 0.5, count: 20, index: func(i int) int { return int(float64(i) * 0.5) }},
		{name: "step -0.5", start: size - 1, step: -0.5, count: 18, index: func(i int) int { return int(size - 1 - float64(i)*0.5) }},
		{name: "step 1.5", start: 0, step: 1.5, count: 6, index: func(i int) int { return int(float64(i) * 1.5) }},
		{name: "step -1.5", start: size - 1, step: -1.5, count: 6, index: func(i int) int { return int(size - 1 - float64(i)*1.5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(data, tt.start, tt.step)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			want := make([]int, tt.count)
			for i := range want {
				want[i] = data[tt.index(i)]
			}

			got := slices.Collect(c.Values(tt.count))
			if !slices.Equal(got, want) {
				t.Errorf("values = %v, want %v", got, want)
			}
		})
	}
}

func TestCursor_SubUnitStep(t *testing.T) {
	t.Parallel()

	data := make([]float32, 10)

	first, _ := New(data, 0, 1)
	last, _ := New(data, len(data), 1)
	if d := last.Sub(first); d != len(data) {
		t.Errorf("forward last-first = %d, want %d", d, len(data))
	}

	rfirst, _ := New(data, len(data)-1, -1)
	rlast, _ := New(data, -1, -1)
	if d := rlast.Sub(rfirst); d != len(data) {
		t.Errorf("backward last-first = %d, want %d", d, len(data))
	}
}

func TestCursor_SubFractional(t *testing.T) {
	t.Parallel()

	data := make([]int, 16)
	a, _ := New(data, 2, 0.5)
	b := a
	for range 7 {
		b.Inc()
	}

	if d := b.Sub(a); d != 7 {
		t.Errorf("b-a = %d, want 7", d)
	}
	if d := a.Sub(b); d != -7 {
		t.Errorf("a-b = %d, want -7", d)
	}
}

func TestCursor_PostIncrementReturnsPrevious(t *testing.T) {
	t.Parallel()

	c, _ := New(backAndForthData, 4, 1)

	if v := c.Next(); v != 4 {
		t.Errorf("Next() = %d, want 4", v)
	}
	if v := c.Value(); v != 5 {
		t.Errorf("Value() after Next = %d, want 5", v)
	}
	if v := c.Prev(); v != 5 {
		t.Errorf("Prev() = %d, want 5", v)
	}
	if v := c.Value(); v != 4 {
		t.Errorf("Value() after Prev = %d, want 4", v)
	}
}

func TestPosition_RoundTrip(t *testing.T) {
	t.Parallel()

	steps := []float64{1, -1, 0.5, -0.5, 1.5, -1.5, 0.3, -2.7, 1.0 / 3}
	starts := []int{0, 7, 100, -3}

	for _, step := range steps {
		for _, start := range starts {
			for k := range 64 {
				p, err := NewPosition(start, step)
				if err != nil {
					t.Fatalf("NewPosition(%d, %v) error = %v", start, step, err)
				}
				orig := p

				for range k {
					p.Inc()
				}
				for range k {
					p.Dec()
				}
				if p != orig {
					t.Fatalf("step %v start %d k %d: inc/dec = %+v, want %+v", step, start, k, p, orig)
				}

				for range k {
					p.Dec()
				}
				for range k {
					p.Inc()
				}
				if p != orig {
					t.Fatalf("step %v start %d k %d: dec/inc = %+v, want %+v", step, start, k, p, orig)
				}
			}
		}
	}
}

func TestPosition_RoundTripInterleaved(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))

	for _, step := range []float64{1, -1, 0.5, -0.5, 1.5, -1.5, 0.37} {
		p, _ := NewPosition(50, step)
		orig := p

		// A random walk that returns to zero net steps must return to the
		// starting position exactly.
		moves := make([]int, 0, 400)
		for range 200 {
			moves = append(moves, 1, -1)
		}
		rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })

		for _, m := range moves {
			if m > 0 {
				p.Inc()
			} else {
				p.Dec()
			}
		}

		if p != orig {
			t.Errorf("step %v: interleaved walk ended at %+v, want %+v", step, p, orig)
		}
	}
}

func TestPosition_DegenerateMatchesIndex(t *testing.T) {
	t.Parallel()

	for _, k := range []int{0, 1, 5, 1000} {
		fwd, _ := NewPosition(3, 1)
		back, _ := NewPosition(3, -1)
		base := fwd

		fwd.Move(k)
		back.Move(k)

		if fwd.Index() != 3+k {
			t.Errorf("forward Move(%d) index = %d, want %d", k, fwd.Index(), 3+k)
		}
		if back.Index() != 3-k {
			t.Errorf("backward Move(%d) index = %d, want %d", k, back.Index(), 3-k)
		}
		if d := fwd.Sub(base); d != k {
			t.Errorf("Sub after Move(%d) = %d, want %d", k, d, k)
		}
		if fwd.Frac() != 0 {
			t.Errorf("unit step left remainder %v", fwd.Frac())
		}
	}
}

func TestPosition_MoveMatchesRepeatedInc(t *testing.T) {
	t.Parallel()

	a, _ := NewPosition(0, 0.75)
	b := a

	a.Move(13)
	for range 13 {
		b.Inc()
	}
	if a != b {
		t.Errorf("Move(13) = %+v, 13 x Inc = %+v", a, b)
	}

	a.Move(-13)
	if a.Index() != 0 || a.Frac() != 0 {
		t.Errorf("Move(-13) did not return to start: %+v", a)
	}
}

func TestPosition_MoveLargeDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step float64
		k    int
	}{
		{"largest whole step", 1 << 29, 8},
		{"fractional step", 0.75, 1 << 40},
		{"negative fractional step", -0.375, 1 << 36},
		{"negative k", 1 << 29, -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := NewPosition(5, tt.step)
			if err != nil {
				t.Fatalf("NewPosition() error = %v", err)
			}
			start := p

			p.Move(tt.k)
			want := 5 + int(math.Floor(tt.step*float64(tt.k)))
			if p.Index() != want || p.Frac() != 0 {
				t.Errorf("Move(%d) = %d + %v, want %d", tt.k, p.Index(), p.Frac(), want)
			}

			p.Move(-tt.k)
			if p != start {
				t.Errorf("Move(%d) then Move(%d) = %+v, want %+v", tt.k, -tt.k, p, start)
			}
		})
	}

	// Eight increments of the largest step pass 2^32.
	a, _ := NewPosition(0, 1<<29)
	b := a
	a.Move(8)
	for range 8 {
		b.Inc()
	}
	if a != b || a.Index() != 1<<32 {
		t.Errorf("Move(8) = %+v, 8 x Inc = %+v", a, b)
	}
}

func TestPosition_WithStepKeepsLocation(t *testing.T) {
	t.Parallel()

	p, _ := NewPosition(4, 0.5)
	p.Inc() // 4.5

	q, err := p.WithStep(-2)
	if err != nil {
		t.Fatalf("WithStep() error = %v", err)
	}
	if q.Index() != 4 || q.Frac() != 0.5 {
		t.Errorf("WithStep moved the position: index %d frac %v", q.Index(), q.Frac())
	}

	q.Inc() // 2.5
	if q.Index() != 2 {
		t.Errorf("after Inc with step -2 index = %d, want 2", q.Index())
	}

	r := q.Reversed()
	r.Inc() // 4.5
	if r.Index() != 4 || r.Step() != 2 {
		t.Errorf("Reversed: index %d step %v, want 4 and 2", r.Index(), r.Step())
	}
}

func TestPosition_ShiftAndSeek(t *testing.T) {
	t.Parallel()

	p, _ := NewPosition(0, 0.25)
	p.Inc()
	p.Shift(10)
	if p.Index() != 10 || p.Frac() != 0.25 {
		t.Errorf("Shift kept index %d frac %v, want 10 and 0.25", p.Index(), p.Frac())
	}
	if loc := p.Location(); loc != 10.25 {
		t.Errorf("Location() = %v, want 10.25", loc)
	}

	p.Seek(3)
	if p.Index() != 3 || p.Frac() != 0 {
		t.Errorf("Seek left index %d frac %v", p.Index(), p.Frac())
	}
}

func TestNewPosition_InvalidStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step float64
		want error
	}{
		{name: "zero", step: 0, want: ErrZeroStep},
		{name: "below resolution", step: 1e-12, want: ErrZeroStep},
		{name: "huge", step: 1e12, want: ErrStepRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewPosition(0, tt.step); !errors.Is(err, tt.want) {
				t.Errorf("NewPosition(0, %v) error = %v, want %v", tt.step, err, tt.want)
			}
			if _, err := New([]int{1}, 0, tt.step); !errors.Is(err, tt.want) {
				t.Errorf("New(..., %v) error = %v, want %v", tt.step, err, tt.want)
			}
		})
	}
}

func TestPosition_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	p, _ := NewPosition(0, -1.5)
	allocs := testing.AllocsPerRun(1000, func() {
		p.Inc()
		p.Dec()
		p.Move(3)
		_ = p.Index()
	})

	if allocs > 0 {
		t.Errorf("Position stepping allocated %v times, want 0", allocs)
	}
}

func BenchmarkPosition_Inc(b *testing.B) {
	p, _ := NewPosition(0, 0.37)

	b.ReportAllocs()
	for range b.N {
		p.Inc()
	}
	_ = p.Index()
}
