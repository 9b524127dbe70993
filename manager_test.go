package scrollkit

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/scrollkit/bounce"
	"github.com/agiangrant/scrollkit/config"
	"github.com/agiangrant/scrollkit/filter"
	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/internal/ffi"
	"github.com/agiangrant/scrollkit/keyboard"
	"github.com/agiangrant/scrollkit/runloop"
	"github.com/agiangrant/scrollkit/scroll"
	"github.com/agiangrant/scrollkit/view"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// testHost is a 375x920 window. Its bottom margin feeds straight into the
// viewport's adjusted inset, the way a safe-area change does on a device.
type testHost struct {
	frame  geom.Rect
	margin float64
	sets   []float64
	vp     *scroll.Container
}

func (h *testHost) Frame() geom.Rect { return h.frame }

func (h *testHost) BottomMargin() float64 { return h.margin }

func (h *testHost) SetBottomMargin(v float64) {
	h.margin = v
	h.sets = append(h.sets, v)
	in := h.vp.AdjustedContentInset()
	in.Bottom = v
	h.vp.SetAdjustedContentInset(in)
}

type testLayout struct {
	height float64
	pinned []float64
	unpins int
}

func (l *testLayout) ContentHeight() float64 { return l.height }

func (l *testLayout) PinMinimumHeight(h float64) { l.pinned = append(l.pinned, h) }

func (l *testLayout) UnpinMinimumHeight() { l.unpins++ }

type testCoordinator struct {
	alongside, completion func()
}

func (c *testCoordinator) Animate(alongside, completion func()) {
	c.alongside, c.completion = alongside, completion
}

type env struct {
	clock  *runloop.Virtual
	center *keyboard.Center
	host   *testHost
	vp     *scroll.Container
	field  *view.Node
	layout *testLayout
	m      *Manager
}

func newEnv(t *testing.T, mutate func(*Config)) *env {
	t.Helper()
	root := view.NewNode("scroll", geom.R(0, 0, 375, 920))
	content := view.NewNode("content", geom.R(0, 0, 375, 1400))
	field := view.NewNode("field", geom.R(16, 800, 343, 44))
	root.AddSubview(content)
	content.AddSubview(field)

	vp := scroll.NewContainer(root, geom.Size{Width: 375, Height: 1400})
	vp.SetKeyboardDismissMode(bounce.DismissInteractive)

	e := &env{
		clock:  runloop.NewVirtual(epoch),
		center: keyboard.NewCenter(),
		host:   &testHost{frame: geom.R(0, 0, 375, 920), vp: vp},
		vp:     vp,
		field:  field,
		layout: &testLayout{height: 1400},
	}
	cfg := DefaultConfig()
	cfg.Center = e.center
	cfg.Layout = e.layout
	if mutate != nil {
		mutate(&cfg)
	}
	e.m = New(e.host, vp, e.clock, cfg)
	t.Cleanup(e.m.Close)
	return e
}

func show(height float64) keyboard.Notification {
	return keyboard.Notification{
		Kind:     keyboard.WillShow,
		Frame:    geom.R(0, 920-height, 375, height),
		Duration: 250 * time.Millisecond,
	}
}

func hide() keyboard.Notification {
	return keyboard.Notification{
		Kind:     keyboard.WillHide,
		Frame:    geom.R(0, 920, 375, 258),
		Duration: 250 * time.Millisecond,
	}
}

func TestShowThenHideRestoresMargin(t *testing.T) {
	e := newEnv(t, nil)

	e.center.Post(show(258))
	assert.Empty(t, e.host.sets, "nothing happens inside the window")

	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, []float64{258}, e.host.sets)
	assert.Equal(t, 258.0, e.m.BottomInset())
	assert.True(t, e.vp.AlwaysBounceVertical())

	e.center.Post(hide())
	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, []float64{258, 0}, e.host.sets)
	assert.False(t, e.vp.AlwaysBounceVertical())
}

func TestBurstAppliesOnce(t *testing.T) {
	e := newEnv(t, nil)

	// Responder change: show, hide, show within 60ms.
	e.center.Post(show(216))
	e.clock.Advance(30 * time.Millisecond)
	e.center.Post(hide())
	e.clock.Advance(30 * time.Millisecond)
	e.center.Post(show(258))
	e.clock.RunUntilIdle()

	assert.Equal(t, []float64{258}, e.host.sets)
}

func TestScrollWaitsForKeyboardLayout(t *testing.T) {
	e := newEnv(t, nil)
	e.field.SetFirstResponder(true)

	require.True(t, e.m.Scroller().ScrollFirstResponderToVisible(true, nil))
	e.center.Post(show(258))
	e.clock.Advance(filter.DefaultDelay)

	// The field's bottom at 844 must clear a 662pt visible area.
	assert.Equal(t, geom.Point{Y: 844 - 662}, e.vp.ContentOffset())
}

func TestManagerAdoptsVisibleKeyboard(t *testing.T) {
	center := keyboard.NewCenter()
	center.Post(show(258))

	root := view.NewNode("scroll", geom.R(0, 0, 375, 920))
	vp := scroll.NewContainer(root, geom.Size{Width: 375, Height: 920})
	host := &testHost{frame: geom.R(0, 0, 375, 920), vp: vp}
	clock := runloop.NewVirtual(epoch)

	cfg := DefaultConfig()
	cfg.Center = center
	m := New(host, vp, clock, cfg)
	defer m.Close()

	clock.Advance(filter.DefaultDelay)
	assert.Equal(t, 258.0, host.margin)
}

func TestNavigationTransitionAppliesImmediately(t *testing.T) {
	e := newEnv(t, nil)

	e.m.InjectKeyboardFrameEvent(keyboard.FrameEvent{
		Frame:    geom.R(0, 662, 375, 258),
		Duration: 350 * time.Millisecond,
	})
	assert.Equal(t, []float64{258}, e.host.sets)
	assert.Zero(t, e.clock.Pending())
}

func TestNavigationThresholdIsConfigurable(t *testing.T) {
	e := newEnv(t, func(c *Config) { c.NavigationThreshold = 400 * time.Millisecond })

	e.m.InjectKeyboardFrameEvent(keyboard.FrameEvent{
		Frame:    geom.R(0, 662, 375, 258),
		Duration: 350 * time.Millisecond,
	})
	assert.Empty(t, e.host.sets)
	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, []float64{258}, e.host.sets)
}

func TestTransitionHoldsKeyboardAndPinsCorner(t *testing.T) {
	e := newEnv(t, nil)
	e.vp.SetAdjustedContentInset(geom.Insets{Top: 20})
	e.vp.SetContentOffset(geom.Point{Y: 100}, false)

	coord := &testCoordinator{}
	e.m.ViewWillTransition(geom.Size{Width: 920, Height: 375}, coord)
	require.True(t, e.m.Filter().IsSuspended())

	e.center.Post(show(258))
	e.clock.Advance(time.Second)
	assert.Empty(t, e.host.sets, "keyboard changes wait for the transition")

	e.vp.SetAdjustedContentInset(geom.Insets{Top: 0})
	coord.alongside()
	assert.Equal(t, geom.Point{Y: 120}, e.vp.ContentOffset())

	coord.completion()
	assert.False(t, e.m.Filter().IsSuspended())
	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, []float64{258}, e.host.sets)
}

func TestTransitionClampsOffset(t *testing.T) {
	e := newEnv(t, nil)
	e.vp.SetContentOffset(geom.Point{Y: 480}, false)
	e.vp.SetContentSize(geom.Size{Width: 375, Height: 1000})

	e.m.ViewWillTransition(geom.Size{Width: 375, Height: 920}, nil)
	assert.Equal(t, geom.Point{Y: 80}, e.vp.ContentOffset())
	assert.False(t, e.m.Filter().IsSuspended())
}

func TestContentHeightPinnedWhileKeyboardShown(t *testing.T) {
	e := newEnv(t, nil)

	e.center.Post(show(258))
	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, []float64{1400}, e.layout.pinned)

	e.center.Post(show(300))
	e.clock.Advance(filter.DefaultDelay)
	assert.Len(t, e.layout.pinned, 1, "resizing does not re-pin")

	e.center.Post(hide())
	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, 1, e.layout.unpins)
}

func TestResizeContentSkipsPinning(t *testing.T) {
	e := newEnv(t, func(c *Config) { c.ShouldResizeContentViewForKeyboard = true })
	assert.True(t, e.m.ShouldResizeContentViewForKeyboard())

	e.center.Post(show(258))
	e.clock.Advance(filter.DefaultDelay)
	e.center.Post(hide())
	e.clock.Advance(filter.DefaultDelay)

	assert.Empty(t, e.layout.pinned)
	assert.Zero(t, e.layout.unpins)
}

func TestSafeAreaAdjustmentDisabled(t *testing.T) {
	e := newEnv(t, func(c *Config) { c.ShouldAdjustSafeAreaForKeyboard = false })

	e.center.Post(show(258))
	e.clock.Advance(filter.DefaultDelay)

	assert.Empty(t, e.host.sets)
	assert.True(t, e.vp.AlwaysBounceVertical(), "bounce still follows the keyboard")
}

func TestAdjustForKeyboardIgnoresRepeats(t *testing.T) {
	e := newEnv(t, nil)

	e.m.AdjustForKeyboard(258)
	e.m.AdjustForKeyboard(258)
	e.m.AdjustForKeyboard(0)
	e.m.AdjustForKeyboard(0)
	assert.Equal(t, []float64{258, 0}, e.host.sets)
}

func TestSafeAreaChangeReevaluatesKeyboard(t *testing.T) {
	e := newEnv(t, nil)

	e.center.Post(show(258))
	e.clock.Advance(filter.DefaultDelay)

	e.host.frame = geom.R(0, 0, 375, 880)
	e.m.ViewSafeAreaInsetsDidChange()
	e.clock.Advance(filter.DefaultDelay)
	assert.Equal(t, []float64{258, 218}, e.host.sets)
}

func TestCloseStopsObserving(t *testing.T) {
	e := newEnv(t, nil)
	require.Equal(t, 1, e.center.Len())

	e.center.Post(show(258))
	e.m.Close()
	e.m.Close()
	assert.Zero(t, e.center.Len())

	e.clock.RunUntilIdle()
	e.center.Post(show(300))
	e.clock.RunUntilIdle()
	assert.Empty(t, e.host.sets)
}

func TestViewWillAppearWarnsOnUndefinedSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := newEnv(t, func(c *Config) { c.Logger = logger })

	e.m.ViewWillAppear()
	assert.Empty(t, buf.String())

	e.vp.SetContentSize(geom.Size{})
	e.m.ViewWillAppear()
	assert.Contains(t, buf.String(), "content size is undefined")
}

func TestKeyboardOverlap(t *testing.T) {
	host := geom.R(0, 0, 375, 920)

	tests := []struct {
		name  string
		frame geom.Rect
		want  float64
	}{
		{"docked", geom.R(0, 662, 375, 258), 258},
		{"offscreen", geom.R(0, 920, 375, 258), 0},
		{"empty", geom.Rect{}, 0},
		{"partly below", geom.R(0, 800, 375, 258), 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyboardOverlap(tt.frame, host))
		})
	}
}

func TestConfigFromFile(t *testing.T) {
	fc := config.Default()
	fc.Filter.Delay = config.Duration(50 * time.Millisecond)
	fc.Scroll.VisibilityMargin = 12
	fc.Manager.ResizeContentForKeyboard = true

	cfg := ConfigFromFile(fc)
	assert.Equal(t, 50*time.Millisecond, cfg.FilterDelay)
	assert.Equal(t, keyboard.DefaultNavigationThreshold, cfg.NavigationThreshold)
	assert.Equal(t, 12.0, cfg.VisibilityScrollMargin)
	assert.True(t, cfg.ShouldResizeContentViewForKeyboard)
	assert.True(t, cfg.ShouldAdjustSafeAreaForKeyboard)

	assert.Equal(t, DefaultConfig(), ConfigFromFile(nil))
}

func TestReconfigure(t *testing.T) {
	e := newEnv(t, nil)

	fc := config.Default()
	fc.Scroll.VisibilityMargin = 6
	fc.Manager.AdjustSafeAreaForKeyboard = false
	e.m.Reconfigure(fc)

	assert.Equal(t, 6.0, e.m.Scroller().VisibilityScrollMargin())
	assert.False(t, e.m.ShouldAdjustSafeAreaForKeyboard())
}

func TestNotificationFromNative(t *testing.T) {
	n, ok := notificationFromNative(ffi.KeyboardEvent{
		Kind:     ffi.KeyboardWillShow,
		Frame:    ffi.RectC{Y: 662, Width: 375, Height: 258},
		Duration: 250 * time.Millisecond,
	})
	require.True(t, ok)
	assert.Equal(t, show(258), n)

	_, ok = notificationFromNative(ffi.KeyboardEvent{Kind: 9})
	assert.False(t, ok)
}

func TestForwardKeyboardAdoptsVisibleKeyboard(t *testing.T) {
	center := keyboard.NewCenter()
	var queue []func()
	post := func(fn func()) bool {
		queue = append(queue, fn)
		return true
	}
	var handler func(ffi.KeyboardEvent)
	setHandler := func(h func(ffi.KeyboardEvent)) error {
		handler = h
		return nil
	}
	current := func() (ffi.RectC, bool) {
		return ffi.RectC{Y: 662, Width: 375, Height: 258}, true
	}

	require.NoError(t, forwardKeyboard(center, post, setHandler, current))
	require.NotNil(t, handler)
	require.Len(t, queue, 1)
	_, ok := center.Last()
	assert.False(t, ok, "nothing reaches the center until the loop runs")

	queue[0]()
	last, ok := center.Last()
	require.True(t, ok)
	assert.Equal(t, keyboard.WillShow, last.Kind)
	assert.Equal(t, geom.R(0, 662, 375, 258), last.Frame)

	handler(ffi.KeyboardEvent{Kind: ffi.KeyboardWillHide, Frame: ffi.RectC{Y: 920, Width: 375}})
	require.Len(t, queue, 2)
	queue[1]()
	last, _ = center.Last()
	assert.Equal(t, keyboard.WillHide, last.Kind)
}

func TestForwardKeyboardHiddenOrUnavailable(t *testing.T) {
	center := keyboard.NewCenter()
	posts := 0
	post := func(func()) bool {
		posts++
		return true
	}
	hidden := func() (ffi.RectC, bool) { return ffi.RectC{}, false }

	installed := func(func(ffi.KeyboardEvent)) error { return nil }
	require.NoError(t, forwardKeyboard(center, post, installed, hidden))
	assert.Zero(t, posts)

	failing := func(func(ffi.KeyboardEvent)) error { return ffi.ErrNotLoaded }
	visible := func() (ffi.RectC, bool) {
		t.Fatal("keyboard queried without a handler")
		return ffi.RectC{}, false
	}
	err := forwardKeyboard(center, post, failing, visible)
	assert.ErrorIs(t, err, ffi.ErrNotLoaded)
}

func TestFollowConfigRunsOnPostedLoop(t *testing.T) {
	e := newEnv(t, nil)
	path := filepath.Join(t.TempDir(), "scrollkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	l := config.NewLoader(path, nil)
	defer l.Close()
	_, err := l.Load()
	require.NoError(t, err)

	queue := make(chan func(), 4)
	e.m.FollowConfig(l, func(fn func()) bool {
		queue <- fn
		return true
	})
	require.NoError(t, l.Watch())

	require.NoError(t, os.WriteFile(path, []byte("[scroll]\nvisibility_margin = 7.0\n"), 0o644))

	select {
	case fn := <-queue:
		assert.Zero(t, e.m.Scroller().VisibilityScrollMargin(), "applied only on the loop")
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("no reload posted after write")
	}
	assert.Equal(t, 7.0, e.m.Scroller().VisibilityScrollMargin())
}

func TestNewLogsMissingSoftKeyboard(t *testing.T) {
	if HasSoftKeyboard() {
		t.Skip("platform has a soft keyboard")
	}
	var buf bytes.Buffer
	newEnv(t, func(cfg *Config) {
		cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})
	assert.Contains(t, buf.String(), "platform has no soft keyboard")
	assert.Equal(t, IsMobile(), HasSoftKeyboard())
}
