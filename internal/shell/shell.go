// Package shell tracks desktop window state: which mini-apps are open or
// minimized, the start menu and the taskbar clock. It never reads or writes
// record data.
package shell

import (
	"errors"
	"fmt"
	"sync"

	"warburtonsos/pkg/domain"
)

// ErrUnknownApp is returned for ids outside the catalog.
var ErrUnknownApp = errors.New("unknown app")

// App is one catalog entry with its window flags.
type App struct {
	ID        domain.AppID `json:"id"`
	Title     string       `json:"title"`
	Open      bool         `json:"open"`
	Minimized bool         `json:"minimized"`
}

// Visible reports whether the app window is drawn.
func (a App) Visible() bool { return a.Open && !a.Minimized }

// DefaultCatalog lists the hosted mini-apps in start menu order.
func DefaultCatalog() []App {
	return []App{
		{ID: domain.AppProductionSchedule, Title: domain.ProductionLines.Title},
		{ID: domain.AppHolidayPlanner, Title: domain.Holidays.Title},
		{ID: domain.AppEngineeringRepairs, Title: domain.Repairs.Title},
		{ID: domain.AppProfitLoss, Title: domain.Transactions.Title},
		{ID: domain.AppInventory, Title: domain.Inventory.Title},
		{ID: domain.AppUsers, Title: domain.Users.Title},
		{ID: domain.AppKPI, Title: domain.KPIs.Title},
	}
}

// Snapshot is a copy of the whole desktop state.
type Snapshot struct {
	Apps          []App `json:"apps"`
	StartMenuOpen bool  `json:"startMenuOpen"`
}

// Shell holds the desktop state. The zero value is not usable; call New.
type Shell struct {
	mu        sync.RWMutex
	apps      []App
	index     map[domain.AppID]int
	startMenu bool
}

// New builds a shell over catalog with every window closed.
func New(catalog []App) *Shell {
	s := &Shell{apps: make([]App, len(catalog)), index: make(map[domain.AppID]int, len(catalog))}
	for i, a := range catalog {
		s.apps[i] = App{ID: a.ID, Title: a.Title}
		s.index[a.ID] = i
	}
	return s
}

func (s *Shell) mutate(id domain.AppID, fn func(*App)) (App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return App{}, fmt.Errorf("%w: %s", ErrUnknownApp, id)
	}
	fn(&s.apps[i])
	return s.apps[i], nil
}

// Open shows the app window, restoring it if minimized.
func (s *Shell) Open(id domain.AppID) (App, error) {
	return s.mutate(id, func(a *App) {
		a.Open = true
		a.Minimized = false
	})
}

// Close hides the app window. The minimized flag is left as is.
func (s *Shell) Close(id domain.AppID) (App, error) {
	return s.mutate(id, func(a *App) { a.Open = false })
}

// Minimize toggles the minimized flag.
func (s *Shell) Minimize(id domain.AppID) (App, error) {
	return s.mutate(id, func(a *App) { a.Minimized = !a.Minimized })
}

// Toggle flips the open flag.
func (s *Shell) Toggle(id domain.AppID) (App, error) {
	return s.mutate(id, func(a *App) { a.Open = !a.Open })
}

// Launch opens the app and closes the start menu. Desktop icons and start
// menu entries both launch.
func (s *Shell) Launch(id domain.AppID) (App, error) {
	app, err := s.Open(id)
	if err != nil {
		return App{}, err
	}
	s.CloseStartMenu()
	return app, nil
}

// App returns the current flags for id.
func (s *Shell) App(id domain.AppID) (App, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return App{}, false
	}
	return s.apps[i], true
}

// Apps returns the catalog in order.
func (s *Shell) Apps() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]App(nil), s.apps...)
}

// Visible lists apps whose windows are drawn.
func (s *Shell) Visible() []App {
	return s.filter(App.Visible)
}

// Taskbar lists open apps, minimized or not.
func (s *Shell) Taskbar() []App {
	return s.filter(func(a App) bool { return a.Open })
}

func (s *Shell) filter(keep func(App) bool) []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []App
	for _, a := range s.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// ToggleStartMenu flips the start menu and returns the new state.
func (s *Shell) ToggleStartMenu() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startMenu = !s.startMenu
	return s.startMenu
}

// CloseStartMenu hides the start menu.
func (s *Shell) CloseStartMenu() {
	s.mu.Lock()
	s.startMenu = false
	s.mu.Unlock()
}

// StartMenuOpen reports the start menu state.
func (s *Shell) StartMenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startMenu
}

// Snapshot copies the desktop state.
func (s *Shell) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Apps: append([]App(nil), s.apps...), StartMenuOpen: s.startMenu}
}
