// Package scroll makes rectangles and views of a scroll container's content
// visible, deferring each request through a filter so that it runs against
// the layout that follows a keyboard or rotation change.
package scroll

import (
	"github.com/agiangrant/scrollkit/bounce"
	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/view"
)

// Viewport is a scroll container.
type Viewport interface {
	bounce.ScrollView

	// View returns the container's node in the host hierarchy. Its bounds
	// origin is the content offset.
	View() view.View

	ContentOffset() geom.Point
	SetContentOffset(p geom.Point, animated bool)
	ContentSize() geom.Size

	// AdjustedContentInset is the content inset including safe-area
	// adjustments.
	AdjustedContentInset() geom.Insets
}

// VisibleContentSize returns the size of the part of vp's bounds in which
// content is visible.
func VisibleContentSize(vp Viewport) geom.Size {
	return vp.View().Bounds().Inset(vp.AdjustedContentInset()).Size
}

// ConstrainContentOffset clamps p to the offsets vp can legally scroll to.
// The bottom-right extent is applied first, so content shorter than the
// viewport pins to the top-left.
func ConstrainContentOffset(vp Viewport, p geom.Point) geom.Point {
	size := vp.ContentSize()
	visible := VisibleContentSize(vp)
	inset := vp.AdjustedContentInset()

	p.X = min(p.X, size.Width-visible.Width-inset.Left)
	p.Y = min(p.Y, size.Height-visible.Height-inset.Top)

	p.X = max(p.X, -inset.Left)
	p.Y = max(p.Y, -inset.Top)
	return p
}

// Container is an in-memory Viewport backed by a view.Node.
type Container struct {
	node *view.Node

	contentSize geom.Size
	inset       geom.Insets
	dismissMode bounce.DismissMode
	bounce      bool

	// LastAnimated records the animated flag of the most recent
	// SetContentOffset.
	LastAnimated bool
}

// NewContainer wraps node as a scroll container.
func NewContainer(node *view.Node, contentSize geom.Size) *Container {
	return &Container{node: node, contentSize: contentSize}
}

func (c *Container) View() view.View { return c.node }

// Node returns the underlying node.
func (c *Container) Node() *view.Node { return c.node }

func (c *Container) ContentOffset() geom.Point { return c.node.Bounds().Origin }

func (c *Container) SetContentOffset(p geom.Point, animated bool) {
	c.node.SetBoundsOrigin(p)
	c.LastAnimated = animated
}

func (c *Container) ContentSize() geom.Size { return c.contentSize }

func (c *Container) SetContentSize(s geom.Size) { c.contentSize = s }

func (c *Container) AdjustedContentInset() geom.Insets { return c.inset }

func (c *Container) SetAdjustedContentInset(in geom.Insets) { c.inset = in }

func (c *Container) KeyboardDismissMode() bounce.DismissMode { return c.dismissMode }

func (c *Container) SetKeyboardDismissMode(m bounce.DismissMode) { c.dismissMode = m }

func (c *Container) AlwaysBounceVertical() bool { return c.bounce }

func (c *Container) SetAlwaysBounceVertical(on bool) { c.bounce = on }
