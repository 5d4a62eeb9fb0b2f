package eisenhower

import "sync"

type ThemeStore struct {
	mu    sync.RWMutex
	p     *Persister
	l     Logger
	theme Theme
}

func NewThemeStore(p *Persister, logger Logger) *ThemeStore {
	s := &ThemeStore{
		p:     p,
		l:     orNop(logger),
		theme: ThemeLight,
	}
	// an unreadable theme falls back to light; it is only written on change
	if text, ok, _ := p.LoadText(KeyTheme); ok {
		s.theme = ParseTheme(text)
	}
	return s
}

func (s *ThemeStore) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *ThemeStore) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = s.theme.Toggle()
	s.p.SaveText(KeyTheme, string(s.theme))
	s.l.Debug("toggled theme", "theme", s.theme)
	return s.theme
}

func (s *ThemeStore) Set(t Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = ParseTheme(string(t))
	s.p.SaveText(KeyTheme, string(s.theme))
}
