package scroll

import (
	"log/slog"

	"github.com/agiangrant/scrollkit/filter"
	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/view"
)

// Config configures a ContentScroller.
type Config struct {
	// VisibilityMargin is added above and below every area made visible,
	// unless a call supplies its own margin. Zero matches the platform.
	VisibilityMargin float64

	Logger *slog.Logger
}

// ContentScroller routes scroll-to-visible requests for a viewport through
// a filter and performs them when the filter fires.
type ContentScroller struct {
	vp     Viewport
	filter *filter.Filter
	margin float64
	logger *slog.Logger
}

// NewContentScroller creates a scroller for vp and installs it as f's scroll
// delegate.
func NewContentScroller(vp Viewport, f *filter.Filter, cfg Config) *ContentScroller {
	if vp == nil || f == nil {
		panic("scroll: nil viewport or filter")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &ContentScroller{
		vp:     vp,
		filter: f,
		margin: cfg.VisibilityMargin,
		logger: logger.With(slog.String("component", "scroll")),
	}
	f.SetScrollDelegate(s)
	return s
}

// VisibilityScrollMargin returns the default margin.
func (s *ContentScroller) VisibilityScrollMargin() float64 { return s.margin }

// SetVisibilityScrollMargin sets the default margin.
func (s *ContentScroller) SetVisibilityScrollMargin(m float64) { s.margin = m }

// Viewport returns the scroller's viewport.
func (s *ContentScroller) Viewport() Viewport { return s.vp }

// ScrollRectToVisible asks for r, in the container's content space, to be
// made visible with the default margin.
func (s *ContentScroller) ScrollRectToVisible(r geom.Rect, animated bool) {
	s.ScrollRectToVisibleWithMargin(r, animated, s.margin)
}

// ScrollRectToVisibleWithMargin is ScrollRectToVisible with an explicit
// margin.
//
// The request is tied to the deepest descendant that contains r, so that it
// follows the descendant if layout moves it before the filter fires. When r
// covers the descendant exactly, the descendant's bounds at fire time are
// used instead, which also follows a resize.
func (s *ContentScroller) ScrollRectToVisibleWithMargin(r geom.Rect, animated bool, margin float64) {
	root := s.vp.View()
	area := filter.ContainerRect(r)
	if d := view.DeepestContaining(root, r, root); d != nil {
		if local, ok := view.ConvertRect(r, root, d); ok {
			if local == d.Bounds() {
				area = filter.DescendantRect(nil, d)
			} else {
				area = filter.DescendantRect(&local, d)
			}
		}
	}
	s.filter.SubmitScrollRectEvent(filter.ScrollRectEvent{Area: area, Animated: animated, Margin: margin})
}

// ScrollViewToVisible asks for v to be made visible. A nil margin means the
// default.
func (s *ContentScroller) ScrollViewToVisible(v view.View, animated bool, margin *float64) {
	area := filter.DescendantRect(nil, v)
	s.filter.SubmitScrollRectEvent(filter.ScrollRectEvent{Area: area, Animated: animated, Margin: s.marginOr(margin)})
}

// ScrollFirstResponderToVisible asks for the first responder inside the
// container to be made visible. It reports false when there is none.
func (s *ContentScroller) ScrollFirstResponderToVisible(animated bool, margin *float64) bool {
	fr := view.FirstResponder(s.vp.View())
	if fr == nil {
		return false
	}
	s.ScrollViewToVisible(fr, animated, margin)
	return true
}

func (s *ContentScroller) marginOr(m *float64) float64 {
	if m != nil {
		return *m
	}
	return s.margin
}

// AdjustForScrollRectEvent resolves e against the current layout and
// scrolls.
func (s *ContentScroller) AdjustForScrollRectEvent(_ *filter.Filter, e filter.ScrollRectEvent) {
	r := s.resolve(e.Area)
	s.ScrollRectToVisibleNow(r.InsetBy(0, -e.Margin), e.Animated)
}

func (s *ContentScroller) resolve(a filter.ContentArea) geom.Rect {
	d := a.Descendant()
	if d == nil {
		r, _ := a.Rect()
		return r
	}

	r, ok := a.Rect()
	if !ok {
		r = d.Bounds()
	}
	root := s.vp.View()
	if view.IsDescendant(d, root) {
		if converted, ok := view.ConvertRect(r, d, root); ok {
			return converted
		}
	}
	s.logger.Warn("scroll target left the container, using container coordinates",
		slog.String("rect", r.String()))
	return r
}

// ScrollRectToVisibleNow scrolls by the smallest offset change that brings r
// into the visible region, without going through the filter.
func (s *ContentScroller) ScrollRectToVisibleNow(r geom.Rect, animated bool) {
	cur := s.vp.ContentOffset()
	visible := s.vp.View().Bounds().Inset(s.vp.AdjustedContentInset())

	target := geom.Point{
		X: cur.X + axisDelta(visible.MinX(), visible.MaxX(), r.MinX(), r.MaxX()),
		Y: cur.Y + axisDelta(visible.MinY(), visible.MaxY(), r.MinY(), r.MaxY()),
	}
	target = ConstrainContentOffset(s.vp, target)
	if target == cur {
		return
	}

	s.logger.Debug("scroll to visible",
		slog.String("rect", r.String()),
		slog.Float64("x", target.X),
		slog.Float64("y", target.Y),
		slog.Bool("animated", animated))
	s.vp.SetContentOffset(target, animated)
}

// axisDelta returns how far to move along one axis so that [lo, hi] lies
// inside [visLo, visHi]. An extent larger than the visible one aligns its
// leading edge.
func axisDelta(visLo, visHi, lo, hi float64) float64 {
	switch {
	case lo >= visLo && hi <= visHi:
		return 0
	case lo < visLo || hi-lo > visHi-visLo:
		return lo - visLo
	default:
		return hi - visHi
	}
}
