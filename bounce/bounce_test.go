package bounce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeScrollView struct {
	mode   DismissMode
	bounce bool
	sets   int
}

func (s *fakeScrollView) KeyboardDismissMode() DismissMode { return s.mode }

func (s *fakeScrollView) AlwaysBounceVertical() bool { return s.bounce }

func (s *fakeScrollView) SetAlwaysBounceVertical(on bool) {
	s.bounce = on
	s.sets++
}

func TestBounceFollowsKeyboard(t *testing.T) {
	tests := []struct {
		name    string
		mode    DismissMode
		initial bool
		shown   bool
	}{
		{"interactive off", DismissInteractive, false, true},
		{"interactive on", DismissInteractive, true, true},
		{"on drag", DismissOnDrag, false, true},
		{"none is inert", DismissNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv := &fakeScrollView{mode: tt.mode, bounce: tt.initial}
			c := New(sv)

			c.SetBottomInset(258)
			assert.Equal(t, tt.shown, sv.bounce)

			c.SetBottomInset(0)
			assert.Equal(t, tt.initial, sv.bounce)
			_, ok := c.Prior()
			assert.False(t, ok)
		})
	}
}

func TestOnlyFirstShowRecords(t *testing.T) {
	sv := &fakeScrollView{mode: DismissInteractive}
	c := New(sv)

	c.SetBottomInset(258)
	sv.bounce = true
	c.SetBottomInset(300)
	c.SetBottomInset(216)

	prior, ok := c.Prior()
	assert.True(t, ok)
	assert.False(t, prior)

	c.SetBottomInset(0)
	assert.False(t, sv.bounce)
	assert.Equal(t, 2, sv.sets)
}

func TestInertModeLeavesFlagAlone(t *testing.T) {
	sv := &fakeScrollView{mode: DismissNone, bounce: true}
	c := New(sv)

	c.SetBottomInset(258)
	c.SetBottomInset(0)
	assert.Zero(t, sv.sets)
	assert.Zero(t, c.BottomInset())
}

func TestDismissModeString(t *testing.T) {
	assert.Equal(t, "interactive", DismissInteractive.String())
	assert.Equal(t, "unknown", DismissMode(9).String())
}

func TestNewPanicsOnNilScrollView(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
