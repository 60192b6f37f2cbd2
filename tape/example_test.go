// SPDX-License-Identifier: EPL-2.0

package tape_test

import (
	"fmt"

	"github.com/ik5/tapecore/tape"
)

func ExampleDeck() {
	const rate = 8000

	d, err := tape.New(tape.Options{SampleRate: rate, Seconds: 10})
	if err != nil {
		fmt.Println(err)
		return
	}

	in := make([]float32, 400)
	out := make([]float32, 400)

	// Hold record for one second.
	d.Record()
	for range rate / len(in) {
		d.Process(in, out)
	}
	d.ReleaseRecord()

	d.Cut(rate / 4)
	for s := range d.Overlapping(0, tape.Slice{In: 0, Out: rate}) {
		fmt.Println(s)
	}
	fmt.Println(d.Timecode(), d.Mode())

	// Output:
	// [0, 2000)
	// [2000, 8000)
	// 00:01.00 stopped
}

func ExampleSliceList_Cut() {
	l := tape.NewSliceList(tape.Slice{In: 0, Out: 10}, tape.Slice{In: 10, Out: 20})
	fmt.Println(l.Len())

	l = l.Cut(5)
	for s := range l.All() {
		fmt.Println(s)
	}

	// Output:
	// 1
	// [0, 5)
	// [5, 20)
}
