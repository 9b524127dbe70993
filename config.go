package scrollkit

import "github.com/agiangrant/scrollkit/config"

// ConfigFromFile returns a manager configuration carrying the settings of a
// loaded configuration file. Center, Layout and Logger are left unset.
func ConfigFromFile(fc *config.Config) Config {
	cfg := DefaultConfig()
	if fc == nil {
		return cfg
	}
	cfg.FilterDelay = fc.Filter.Delay.Std()
	cfg.NavigationThreshold = fc.Filter.NavigationThreshold.Std()
	cfg.VisibilityScrollMargin = fc.Scroll.VisibilityMargin
	cfg.ShouldResizeContentViewForKeyboard = fc.Manager.ResizeContentForKeyboard
	cfg.ShouldAdjustSafeAreaForKeyboard = fc.Manager.AdjustSafeAreaForKeyboard
	return cfg
}

// Reconfigure applies the settings of a reloaded configuration file. A new
// filter delay only affects managers created afterwards.
func (m *Manager) Reconfigure(fc *config.Config) {
	next := ConfigFromFile(fc)
	m.cfg.NavigationThreshold = next.NavigationThreshold
	m.cfg.ShouldResizeContentViewForKeyboard = next.ShouldResizeContentViewForKeyboard
	m.cfg.ShouldAdjustSafeAreaForKeyboard = next.ShouldAdjustSafeAreaForKeyboard
	m.scroller.SetVisibilityScrollMargin(next.VisibilityScrollMargin)
}

// FollowConfig reconfigures m after every reload of l. Reloads are handed to
// post, which must run them on m's loop.
func (m *Manager) FollowConfig(l *config.Loader, post func(func()) bool) {
	l.OnChange(post, func(fc *config.Config) {
		if m.closed {
			return
		}
		m.Reconfigure(fc)
	})
}
