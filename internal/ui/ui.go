package ui

import "social-client/internal/store"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type State struct {
	Theme       Theme
	SidebarOpen bool
}

type Action interface {
	Type() string
}

type ToggleTheme struct{}
type SetTheme struct{ Theme Theme }
type ToggleSidebar struct{}

func (ToggleTheme) Type() string   { return "ui/toggleTheme" }
func (SetTheme) Type() string      { return "ui/setTheme" }
func (ToggleSidebar) Type() string { return "ui/toggleSidebar" }

type Store = store.Store[State, Action]

func NewStore() *Store {
	return store.New[State, Action](State{Theme: ThemeLight, SidebarOpen: true}, Reduce)
}

func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case ToggleTheme:
		if state.Theme == ThemeDark {
			state.Theme = ThemeLight
		} else {
			state.Theme = ThemeDark
		}
	case SetTheme:
		if a.Theme == ThemeLight || a.Theme == ThemeDark {
			state.Theme = a.Theme
		}
	case ToggleSidebar:
		state.SidebarOpen = !state.SidebarOpen
	}
	return state
}
