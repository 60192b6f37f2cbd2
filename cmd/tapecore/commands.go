// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ik5/tapecore"
	"github.com/ik5/tapecore/tape"
)

var errQuit = errors.New("quit")

type command struct {
	usage string
	run   func(s *tapecore.Studio, w io.Writer, args []string) error
}

var commands = map[string]command{
	"rec":    {"toggle recording on the selected track", cmdRecord},
	"play":   {"toggle playback", cmdPlay},
	"stop":   {"stop the transport", cmdStop},
	"ff":     {"spool forward (again to release)", cmdSpool(true)},
	"rew":    {"spool backward (again to release)", cmdSpool(false)},
	"track":  {"N: select track 1-4", cmdTrack},
	"speed":  {"X: set the play speed", cmdSpeed},
	"seek":   {"SECONDS: move the head", cmdSeek},
	"bar":    {"N: jump N bars from the current one", cmdBar},
	"loop":   {"toggle looping", cmdLoop},
	"in":     {"set the loop start at the head", cmdLoopIn},
	"out":    {"set the loop end at the head", cmdLoopOut},
	"cut":    {"cut the slice under the head", cmdCut},
	"glue":   {"glue the slices meeting at the head", cmdGlue},
	"lift":   {"lift the slice under the head", cmdLift},
	"drop":   {"drop the lifted slice at the head", cmdDrop},
	"note":   {"KEY: trigger a sampler voice", cmdNote(true)},
	"off":    {"KEY: release a sampler voice", cmdNote(false)},
	"load":   {"PATH: load a sample", cmdLoad},
	"bounce": {"DIR: write every recorded track to DIR as WAV", cmdBounce},
	"status": {"show the transport", cmdStatus},
	"quit":   {"exit", func(*tapecore.Studio, io.Writer, []string) error { return errQuit }},
}

// runCommands executes one command per line of r until EOF or quit. Command
// errors are reported on w and do not stop the loop.
func runCommands(r io.Reader, w io.Writer, s *tapecore.Studio) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		name, args := fields[0], fields[1:]
		if name == "help" {
			printHelp(w)
			continue
		}

		c, ok := commands[name]
		if !ok {
			fmt.Fprintf(w, "unknown command %q, try help\n", name)
			continue
		}

		err := c.run(s, w, args)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", name, err)
		}
	}
	return sc.Err()
}

func printHelp(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-7s %s\n", name, commands[name].usage)
	}
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one number")
	}
	return strconv.Atoi(args[0])
}

func floatArg(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one number")
	}
	return strconv.ParseFloat(args[0], 64)
}

func cmdRecord(s *tapecore.Studio, w io.Writer, _ []string) error {
	d := s.Deck()
	if d.Mode() == tape.Recording {
		d.ReleaseRecord()
		return nil
	}
	d.Record()
	return nil
}

func cmdPlay(s *tapecore.Studio, _ io.Writer, _ []string) error {
	s.Deck().Play()
	s.Deck().ReleasePlay()
	return nil
}

func cmdStop(s *tapecore.Studio, _ io.Writer, _ []string) error {
	s.Deck().Stop()
	return nil
}

func cmdSpool(forward bool) func(*tapecore.Studio, io.Writer, []string) error {
	want := tape.SpoolingBackward
	if forward {
		want = tape.SpoolingForward
	}
	return func(s *tapecore.Studio, _ io.Writer, _ []string) error {
		if s.Deck().Mode() == want {
			s.Deck().ReleaseSpool()
			return nil
		}
		return s.Spool(forward)
	}
}

func cmdTrack(s *tapecore.Studio, _ io.Writer, args []string) error {
	n, err := intArg(args)
	if err != nil {
		return err
	}
	if n < 1 || n > tape.Tracks {
		return fmt.Errorf("track must be 1-%d", tape.Tracks)
	}
	s.Deck().SelectTrack(n - 1)
	return nil
}

func cmdSpeed(s *tapecore.Studio, _ io.Writer, args []string) error {
	v, err := floatArg(args)
	if err != nil {
		return err
	}
	s.Deck().SetSpeed(v)
	return nil
}

func cmdSeek(s *tapecore.Studio, _ io.Writer, args []string) error {
	v, err := floatArg(args)
	if err != nil {
		return err
	}
	return s.Deck().Seek(int(v * float64(s.Deck().SampleRate())))
}

func cmdBar(s *tapecore.Studio, _ io.Writer, args []string) error {
	n, err := intArg(args)
	if err != nil {
		return err
	}
	return s.Deck().GoToBarRel(n)
}

func cmdLoop(s *tapecore.Studio, w io.Writer, _ []string) error {
	if s.Deck().ToggleLoop() {
		fmt.Fprintln(w, "loop on")
	} else {
		fmt.Fprintln(w, "loop off")
	}
	return nil
}

func cmdLoopIn(s *tapecore.Studio, _ io.Writer, _ []string) error {
	s.Deck().LoopInHere()
	return nil
}

func cmdLoopOut(s *tapecore.Studio, _ io.Writer, _ []string) error {
	s.Deck().LoopOutHere()
	return nil
}

func cmdCut(s *tapecore.Studio, _ io.Writer, _ []string) error {
	return s.Deck().Cut(s.Deck().Position())
}

func cmdGlue(s *tapecore.Studio, _ io.Writer, _ []string) error {
	return s.Deck().Glue(s.Deck().Position())
}

func cmdLift(s *tapecore.Studio, w io.Writer, _ []string) error {
	sl, err := s.Deck().Lift()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "lifted %v\n", sl)
	return nil
}

func cmdDrop(s *tapecore.Studio, w io.Writer, _ []string) error {
	sl, err := s.Deck().Drop()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "dropped %v\n", sl)
	return nil
}

func cmdNote(on bool) func(*tapecore.Studio, io.Writer, []string) error {
	return func(s *tapecore.Studio, _ io.Writer, args []string) error {
		key, err := intArg(args)
		if err != nil {
			return err
		}
		ok := s.NoteOff(key)
		if on {
			ok = s.NoteOn(key)
		}
		if !ok {
			return errors.New("event queue full")
		}
		return nil
	}
}

func cmdLoad(s *tapecore.Studio, _ io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("expected a path")
	}
	return s.LoadSample(args[0])
}

func cmdBounce(s *tapecore.Studio, w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("expected a directory")
	}
	if err := os.MkdirAll(args[0], 0o755); err != nil {
		return err
	}

	for t := range tape.Tracks {
		if s.Deck().Slices(t).Len() == 0 {
			continue
		}
		if err := bounceTo(s, t, filepath.Join(args[0], fmt.Sprintf("track%d.wav", t+1))); err != nil {
			return err
		}
		fmt.Fprintf(w, "bounced track %d\n", t+1)
	}
	return nil
}

func bounceTo(s *tapecore.Studio, t int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.BounceTrack(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdStatus(s *tapecore.Studio, w io.Writer, _ []string) error {
	snap := s.Deck().Snapshot()
	fmt.Fprintf(w, "%s %s track %d speed %g", snap.Timecode(), snap.Mode, snap.Track+1, snap.Speed)
	if snap.Looping {
		fmt.Fprintf(w, " loop %v", snap.Loop)
	}
	fmt.Fprintln(w)

	for t, l := range snap.Slices {
		if l.Len() == 0 {
			continue
		}
		parts := make([]string, 0, l.Len())
		for sl := range l.All() {
			parts = append(parts, sl.String())
		}
		fmt.Fprintf(w, "  track %d: %s\n", t+1, strings.Join(parts, " "))
	}
	return nil
}
