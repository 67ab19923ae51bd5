// Package main is the entry point for the ascii-edit CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/mchenetz/ascii-edit/internal/config"
	"github.com/mchenetz/ascii-edit/internal/recording"
	"github.com/mchenetz/ascii-edit/internal/render"
	"github.com/mchenetz/ascii-edit/internal/render/backend"
	"github.com/mchenetz/ascii-edit/internal/session"
	"github.com/mchenetz/ascii-edit/internal/term"
	"github.com/mchenetz/ascii-edit/internal/timeline"
)

// Version information (set via ldflags during build).
var version = "dev"

var logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
})

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return 2
	}

	cfg := loadConfig()

	var err error
	switch os.Args[1] {
	case "info":
		err = cmdInfo(os.Args[2:])
	case "snapshot":
		err = cmdSnapshot(os.Args[2:])
	case "export":
		err = cmdExport(os.Args[2:], cfg)
	case "play":
		err = cmdPlay(os.Args[2:], cfg)
	case "version":
		fmt.Println("ascii-edit", version)
	default:
		usage()
		return 2
	}

	if err != nil {
		logger.Error(err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ascii-edit <command> [flags] FILE

commands:
  info      print recording metadata
  snapshot  render the screen at a point in time as HTML
  export    flatten an edited timeline to a new recording
  play      interactive playback in the terminal
  version   print the version`)
}

func loadConfig() config.Config {
	path := os.Getenv("ASCII_EDIT_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".config", "ascii-edit", "config.toml")
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config load failed, using defaults", "err", err)
		return config.Default()
	}
	return cfg
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("info: exactly one FILE expected")
	}

	rec, err := recording.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("version:  %d\n", rec.Header.Version)
	fmt.Printf("grid:     %dx%d\n", rec.Header.Cols, rec.Header.Rows)
	fmt.Printf("events:   %d (%d output)\n", len(rec.Events), len(rec.Output))
	fmt.Printf("duration: %.3fs\n", rec.Duration)
	return nil
}

func cmdSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	at := fs.Float64("t", 0, "source time in seconds")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("snapshot: exactly one FILE expected")
	}

	rec, err := recording.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	screen := term.ReplayRecording(rec, *at)
	doc := render.HTML(screen, rec.Theme)

	if *out == "" {
		fmt.Println(doc)
		return nil
	}
	if err := os.WriteFile(*out, []byte(doc+"\n"), 0o644); err != nil {
		return err
	}
	logger.Info("snapshot written", "file", *out, "t", *at)
	return nil
}

// keepRanges collects repeated -keep start:end flags.
type keepRanges [][2]float64

func (k *keepRanges) String() string { return fmt.Sprint([][2]float64(*k)) }

func (k *keepRanges) Set(v string) error {
	lo, hi, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("range must be start:end")
	}
	start, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return fmt.Errorf("bad range start %q", lo)
	}
	end, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return fmt.Errorf("bad range end %q", hi)
	}
	if end <= start {
		return fmt.Errorf("range %q is empty", v)
	}
	*k = append(*k, [2]float64{start, end})
	return nil
}

func cmdExport(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default stdout)")
	var keep keepRanges
	fs.Var(&keep, "keep", "source range start:end to keep (repeatable; default whole recording)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export: exactly one FILE expected")
	}

	rec, err := recording.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	sess := session.New(cfg.Editor.UndoDepth)
	sess.Load(rec)

	if len(keep) > 0 {
		// Replace the initial whole-recording segment with the kept ranges.
		tl := timeline.Timeline{}
		for _, r := range keep {
			end := r[1]
			if end > rec.Duration {
				end = rec.Duration
			}
			if end <= r[0] {
				continue
			}
			tl.Segments = append(tl.Segments, timeline.NewSegment(rec.ID, r[0], end))
		}
		if len(tl.Segments) == 0 {
			return fmt.Errorf("no -keep range overlaps the recording")
		}
		if err := sess.Apply(func(timeline.Timeline) (timeline.Timeline, error) {
			return tl, nil
		}); err != nil {
			return err
		}
	}

	doc, err := sess.Export()
	if err != nil {
		return err
	}

	if *out == "" {
		fmt.Println(string(doc))
		return nil
	}
	if err := os.WriteFile(*out, append(doc, '\n'), 0o644); err != nil {
		return err
	}
	logger.Info("export written", "file", *out, "segments", len(sess.Timeline().Segments))
	return nil
}

func cmdPlay(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	speed := fs.Float64("speed", cfg.Playback.Speed, "playback speed multiplier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("play: exactly one FILE expected")
	}

	rec, err := recording.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	sess := session.New(cfg.Editor.UndoDepth)
	sess.Load(rec)
	sched := sess.Scheduler()
	sched.SetSpeed(*speed)

	// Live-reload playback speed from the config file while playing.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if path := os.Getenv("ASCII_EDIT_CONFIG"); path != "" {
		go func() {
			_ = config.Watch(ctx, path, func(c config.Config) {
				sched.SetSpeed(c.Playback.Speed)
			}, nil)
		}()
	}

	t, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	if err := t.Init(); err != nil {
		return err
	}
	defer t.Shutdown()

	return playLoop(t, sess, rec)
}

func playLoop(t *backend.Terminal, sess *session.Session, rec *recording.Recording) error {
	sched := sess.Scheduler()
	sched.Play()

	const frame = 30 * time.Millisecond
	last := time.Now()

	for {
		now := time.Now()
		composed := sess.Timeline().ComposedDuration()
		playhead := sched.Tick(now.Sub(last), composed)
		last = now

		screen, err := sess.ScreenAt(playhead)
		if err != nil {
			return err
		}
		t.Draw(screen, rec.Theme)
		t.Message(rec.Header.Rows, fmt.Sprintf(" %6.2fs / %.2fs  x%.2g  [space] pause  [q] quit ",
			playhead, composed, sched.Speed()))

		for t.HasPendingEvent() {
			switch t.PollAction() {
			case backend.ActionQuit:
				return nil
			case backend.ActionTogglePause:
				if sched.Playing() {
					sched.Pause()
				} else {
					sched.Play()
				}
			case backend.ActionSeekBack:
				sched.Seek(playhead-5, composed)
			case backend.ActionSeekForward:
				sched.Seek(playhead+5, composed)
			case backend.ActionSlower:
				sched.SetSpeed(sched.Speed() / 2)
			case backend.ActionFaster:
				sched.SetSpeed(sched.Speed() * 2)
			case backend.ActionRestart:
				sched.Seek(0, composed)
				sched.Play()
			}
		}

		time.Sleep(frame)
	}
}
