package filter

import (
	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/view"
)

// ContentArea is the part of a scroll container's content to make visible.
// It is either a rectangle fixed in the container's content space or a
// rectangle relative to a descendant view, resolved when the event fires.
type ContentArea struct {
	rect       geom.Rect
	wholeView  bool
	descendant view.View
}

// ContainerRect is a rectangle in the scroll container's content space.
func ContainerRect(r geom.Rect) ContentArea {
	return ContentArea{rect: r}
}

// DescendantRect is a rectangle in v's bounds space. A nil r means v's
// entire bounds at the time the event fires.
func DescendantRect(r *geom.Rect, v view.View) ContentArea {
	a := ContentArea{descendant: v, wholeView: r == nil}
	if r != nil {
		a.rect = *r
	}
	return a
}

// Descendant returns the descendant view the area is relative to, or nil for
// a container rectangle.
func (a ContentArea) Descendant() view.View {
	return a.descendant
}

// Rect returns the stored rectangle. The boolean is false when the area
// stands for the descendant's whole bounds.
func (a ContentArea) Rect() (geom.Rect, bool) {
	return a.rect, !a.wholeView
}

// ScrollRectEvent is a deferred request to scroll part of the content into
// view.
type ScrollRectEvent struct {
	Area     ContentArea
	Animated bool

	// Margin is added above and below the area.
	Margin float64
}
