// Package view models the parts of a host view hierarchy that scroll-target
// resolution needs: frames, bounds, parent/child links and the first
// responder.
package view

import "github.com/agiangrant/scrollkit/geom"

// View is a node in a host view hierarchy.
//
// Frame is expressed in the superview's bounds coordinate space. Bounds is the
// view's own coordinate space; for a scroll container its origin is the
// content offset.
type View interface {
	Frame() geom.Rect
	Bounds() geom.Rect
	Superview() View
	Subviews() []View
	IsFirstResponder() bool
}

// Root returns the topmost ancestor of v.
func Root(v View) View {
	for {
		s := v.Superview()
		if s == nil {
			return v
		}
		v = s
	}
}

// IsDescendant reports whether v is ancestor or lies beneath it.
func IsDescendant(v, ancestor View) bool {
	for v != nil {
		if v == ancestor {
			return true
		}
		v = v.Superview()
	}
	return false
}

// offsetInRoot returns the translation from v's bounds space to its root's
// bounds space.
func offsetInRoot(v View) geom.Point {
	var off geom.Point
	for {
		s := v.Superview()
		if s == nil {
			return off
		}
		off = off.Add(v.Frame().Origin).Sub(v.Bounds().Origin)
		v = s
	}
}

// ConvertRect re-expresses r, given in from's bounds space, in to's bounds
// space. It returns false when the views are not in the same hierarchy.
func ConvertRect(r geom.Rect, from, to View) (geom.Rect, bool) {
	if from == to {
		return r, true
	}
	if Root(from) != Root(to) {
		return r, false
	}
	a := offsetInRoot(from)
	b := offsetInRoot(to)
	return r.Offset(a.X-b.X, a.Y-b.Y), true
}

// DeepestContaining searches beneath root for the deepest view whose frame
// fully contains r, where r is given in space's bounds coordinates. The
// search is depth first, so among nested matches the innermost one wins.
func DeepestContaining(root View, r geom.Rect, space View) View {
	local, ok := ConvertRect(r, space, root)
	if !ok {
		return nil
	}
	for _, sub := range root.Subviews() {
		if d := DeepestContaining(sub, r, space); d != nil {
			return d
		}
		if sub.Frame().Contains(local) {
			return sub
		}
	}
	return nil
}

// FirstResponder returns the first responder at or beneath root, or nil.
func FirstResponder(root View) View {
	if root.IsFirstResponder() {
		return root
	}
	for _, sub := range root.Subviews() {
		if fr := FirstResponder(sub); fr != nil {
			return fr
		}
	}
	return nil
}
