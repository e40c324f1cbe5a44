package session

import (
	"social-client/internal/models"
	"social-client/internal/store"
)

// State is the authentication state of the current visitor.
type State struct {
	Authenticated bool
	User          *models.AuthUser
}

type Action interface {
	Type() string
}

type Login struct{ User models.AuthUser }
type Logout struct{}

// SetAuthStatus toggles authentication. Fallback is used as the user when the
// session becomes authenticated without a user already loaded.
type SetAuthStatus struct {
	Authenticated bool
	Fallback      *models.AuthUser
}

// UserPatch carries user fields to merge. Nil fields are kept.
type UserPatch struct {
	Name      *string
	Handle    *string
	Email     *string
	AvatarURL *string
}

type UpdateUser struct{ Patch UserPatch }

func (Login) Type() string         { return "auth/login" }
func (Logout) Type() string        { return "auth/logout" }
func (SetAuthStatus) Type() string { return "auth/setAuthStatus" }
func (UpdateUser) Type() string    { return "auth/updateUser" }

type Store = store.Store[State, Action]

func NewStore() *Store {
	return store.New[State, Action](State{}, Reduce)
}

// Reduce applies an auth action.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Login:
		user := a.User
		state.Authenticated = true
		state.User = &user
	case Logout:
		state.Authenticated = false
		state.User = nil
	case SetAuthStatus:
		state.Authenticated = a.Authenticated
		if !a.Authenticated {
			state.User = nil
			return state
		}
		if state.User == nil && a.Fallback != nil {
			user := *a.Fallback
			state.User = &user
		}
	case UpdateUser:
		if state.User == nil {
			return state
		}
		user := *state.User
		if a.Patch.Name != nil {
			user.Name = *a.Patch.Name
		}
		if a.Patch.Handle != nil {
			user.Handle = *a.Patch.Handle
		}
		if a.Patch.Email != nil {
			user.Email = *a.Patch.Email
		}
		if a.Patch.AvatarURL != nil {
			user.AvatarURL = *a.Patch.AvatarURL
		}
		state.User = &user
	}
	return state
}
