package commands

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/scrollkit"
	"github.com/agiangrant/scrollkit/bounce"
	"github.com/agiangrant/scrollkit/config"
	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/internal/invariant"
	"github.com/agiangrant/scrollkit/keyboard"
	"github.com/agiangrant/scrollkit/runloop"
	"github.com/agiangrant/scrollkit/scroll"
	"github.com/agiangrant/scrollkit/view"
)

// Script is a keyboard timeline replayed by the simulate command.
type Script struct {
	Window  Window  `toml:"window"`
	Content Content `toml:"content"`
	Fields  []Field `toml:"field"`
	Steps   []Step  `toml:"step"`
}

type Window struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	// Bottom margin the host reserves before any keyboard appears.
	Margin float64 `toml:"margin"`
}

type Content struct {
	Height       float64 `toml:"height"`
	DismissMode  string  `toml:"dismiss_mode"`
	AlwaysBounce bool    `toml:"always_bounce"`
}

type Field struct {
	Name   string  `toml:"name"`
	Y      float64 `toml:"y"`
	Height float64 `toml:"height"`
}

// Step is one timeline entry. Action is show, hide, focus, scroll,
// transition or safe-area.
type Step struct {
	At       config.Duration `toml:"at"`
	Action   string          `toml:"action"`
	Height   float64         `toml:"height"`
	Width    float64         `toml:"width"`
	Duration config.Duration `toml:"duration"`
	Field    string          `toml:"field"`
}

var errScript = errors.New("invalid script")

// ParseScript decodes and checks a timeline.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return nil, fmt.Errorf("%w: window needs a width and height", errScript)
	}
	if s.Content.Height <= 0 {
		s.Content.Height = s.Window.Height
	}
	if _, err := parseDismissMode(s.Content.DismissMode); err != nil {
		return nil, err
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "show", "transition":
			if st.Height <= 0 {
				return nil, fmt.Errorf("%w: step %d: %s needs a height", errScript, i, st.Action)
			}
		case "focus", "scroll":
			if !slices.ContainsFunc(s.Fields, func(f Field) bool { return f.Name == st.Field }) {
				return nil, fmt.Errorf("%w: step %d: unknown field %q", errScript, i, st.Field)
			}
		case "hide", "safe-area":
		default:
			return nil, fmt.Errorf("%w: step %d: unknown action %q", errScript, i, st.Action)
		}
	}
	slices.SortStableFunc(s.Steps, func(a, b Step) int {
		return cmp.Compare(a.At, b.At)
	})
	return &s, nil
}

func parseDismissMode(s string) (bounce.DismissMode, error) {
	switch s {
	case "", "interactive":
		return bounce.DismissInteractive, nil
	case "on-drag":
		return bounce.DismissOnDrag, nil
	case "none":
		return bounce.DismissNone, nil
	default:
		return 0, fmt.Errorf("%w: unknown dismiss_mode %q", errScript, s)
	}
}

// simHost is the simulated window. Its bottom margin becomes the viewport's
// bottom inset.
type simHost struct {
	frame  geom.Rect
	margin float64
	vp     *simViewport
	trace  func(format string, args ...any)
}

func (h *simHost) Frame() geom.Rect { return h.frame }

func (h *simHost) BottomMargin() float64 { return h.margin }

func (h *simHost) SetBottomMargin(v float64) {
	h.margin = v
	in := h.vp.AdjustedContentInset()
	in.Bottom = v
	h.vp.SetAdjustedContentInset(in)
	h.trace("margin=%g bounce=%t", v, h.vp.AlwaysBounceVertical())
}

type simViewport struct {
	*scroll.Container
	trace func(format string, args ...any)
}

func (v *simViewport) SetContentOffset(p geom.Point, animated bool) {
	v.Container.SetContentOffset(p, animated)
	v.trace("offset=%g,%g animated=%t", p.X, p.Y, animated)
}

type simCoordinator struct {
	clock    *runloop.Virtual
	duration time.Duration
}

func (c simCoordinator) Animate(alongside, completion func()) {
	alongside()
	c.clock.AfterFunc(c.duration, completion)
}

// Run replays s through a manager configured with cfg, writing a line to w
// for every margin and offset change.
func Run(s *Script, cfg scrollkit.Config, w io.Writer) error {
	clock := runloop.NewVirtual(time.Time{})
	trace := func(format string, args ...any) {
		fmt.Fprintf(w, "%8s  %s\n", "+"+clock.Now().Sub(time.Time{}).String(), fmt.Sprintf(format, args...))
	}

	root := view.NewNode("scroll", geom.R(0, 0, s.Window.Width, s.Window.Height))
	content := view.NewNode("content", geom.R(0, 0, s.Window.Width, s.Content.Height))
	root.AddSubview(content)
	fields := make(map[string]*view.Node, len(s.Fields))
	for _, f := range s.Fields {
		n := view.NewNode(f.Name, geom.R(0, f.Y, s.Window.Width, f.Height))
		content.AddSubview(n)
		fields[f.Name] = n
	}

	mode, _ := parseDismissMode(s.Content.DismissMode)
	vp := &simViewport{Container: scroll.NewContainer(root, geom.Size{Width: s.Window.Width, Height: s.Content.Height}), trace: trace}
	vp.SetKeyboardDismissMode(mode)
	vp.SetAlwaysBounceVertical(s.Content.AlwaysBounce)
	vp.SetAdjustedContentInset(geom.Insets{Bottom: s.Window.Margin})

	host := &simHost{
		frame:  geom.R(0, 0, s.Window.Width, s.Window.Height),
		margin: s.Window.Margin,
		vp:     vp,
		trace:  trace,
	}

	center := keyboard.NewCenter()
	cfg.Center = center
	m := scrollkit.New(host, vp, clock, cfg)
	defer m.Close()
	m.ViewWillAppear()

	var elapsed time.Duration
	for _, st := range s.Steps {
		if at := st.At.Std(); at > elapsed {
			clock.Advance(at - elapsed)
			elapsed = at
		}
		d := st.Duration.Std()
		if d <= 0 {
			d = 250 * time.Millisecond
		}
		trace("%s", describe(st))

		switch st.Action {
		case "show":
			center.Post(keyboard.Notification{
				Kind:     keyboard.WillShow,
				Frame:    geom.R(0, host.frame.MaxY()-st.Height, host.frame.Size.Width, st.Height),
				Duration: d,
			})
		case "hide":
			center.Post(keyboard.Notification{
				Kind:     keyboard.WillHide,
				Frame:    geom.R(0, host.frame.MaxY(), host.frame.Size.Width, 0),
				Duration: d,
			})
		case "focus":
			if fr := view.FirstResponder(root); fr != nil {
				fr.(*view.Node).SetFirstResponder(false)
			}
			fields[st.Field].SetFirstResponder(true)
			m.Scroller().ScrollFirstResponderToVisible(true, nil)
		case "scroll":
			m.Scroller().ScrollViewToVisible(fields[st.Field], true, nil)
		case "transition":
			size := geom.Size{Width: st.Width, Height: st.Height}
			if size.Width <= 0 {
				size.Width = host.frame.Size.Width
			}
			host.frame.Size = size
			root.SetSize(size)
			m.ViewWillTransition(size, simCoordinator{clock: clock, duration: d})
		case "safe-area":
			m.ViewSafeAreaInsetsDidChange()
		}
	}

	clock.RunUntilIdle()
	trace("final margin=%g offset=%g,%g", host.margin, vp.ContentOffset().X, vp.ContentOffset().Y)
	return nil
}

func describe(st Step) string {
	switch st.Action {
	case "show":
		return fmt.Sprintf("show keyboard height=%g", st.Height)
	case "focus", "scroll":
		return fmt.Sprintf("%s %s", st.Action, st.Field)
	case "transition":
		return fmt.Sprintf("transition to %gx%g", st.Width, st.Height)
	default:
		return st.Action
	}
}

// Simulate runs the simulate command.
func Simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	configFile := fs.String("config", DefaultConfigFile, "Configuration file (missing means defaults)")
	watch := fs.Bool("watch", false, "Re-run whenever the script or configuration changes")
	strict := fs.Bool("strict", false, "Panic on state-machine breaches")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: scrollkit simulate [options] <script.toml>")
	}
	path := fs.Arg(0)

	loader := config.NewLoader(*configFile, nil)
	fc, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyDebug(fc, *strict)
	cfg := scrollkit.ConfigFromFile(fc)

	if err := runFile(path, cfg, os.Stdout); err != nil {
		if !*watch {
			return err
		}
		slog.Warn("simulation failed", slog.Any("error", err))
	}
	if !*watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchAndRerun(ctx, path, loader, cfg, *strict, os.Stdout)
}

func applyDebug(fc *config.Config, strict bool) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: fc.Level()})))
	invariant.SetStrict(strict || fc.Debug.StrictInvariants)
}

func runFile(path string, cfg scrollkit.Config, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return err
	}
	return Run(s, cfg, w)
}

// watchAndRerun replays the script at path whenever it or the loader's
// file changes, until ctx is done. Every run happens on one loop goroutine.
func watchAndRerun(ctx context.Context, path string, loader *config.Loader, cfg scrollkit.Config, strict bool, w io.Writer) error {
	loop := runloop.New(nil)
	rerun := func() {
		fmt.Fprintln(w)
		if err := runFile(path, cfg, w); err != nil {
			slog.Warn("simulation failed", slog.Any("error", err))
		}
	}

	loader.OnChange(loop.Post, func(fc *config.Config) {
		applyDebug(fc, strict)
		cfg = scrollkit.ConfigFromFile(fc)
		rerun()
	})
	if err := loader.Watch(); err != nil {
		return err
	}
	defer loader.Close()

	script, err := config.WatchFile(path, nil, func() { loop.Post(rerun) }, nil)
	if err != nil {
		return err
	}
	defer script.Close()

	slog.Info("watching script", slog.String("path", path))
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
