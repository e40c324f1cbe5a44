package profile

import (
	"time"

	"social-client/internal/models"
	"social-client/internal/store"
)

// State is the signed-in user's profile page.
type State struct {
	Me        models.ProfileUser
	Followers []models.User
	Following []models.User
	Replies   []models.Reply
	Media     []models.MediaItem
}

type Action interface {
	Type() string
}

// Patch carries profile fields to merge. Nil fields are kept.
type Patch struct {
	Name      *string
	Handle    *string
	Bio       *string
	AvatarURL *string
	BannerURL *string
}

type UpdateMe struct{ Patch Patch }
type Follow struct{ ID string }
type Unfollow struct{ ID string }
type AddFollower struct{ User models.User }
type RemoveFollower struct{ ID string }
type AddFollowing struct{ User models.User }
type RemoveFollowing struct{ ID string }
type AddReply struct{ Reply models.Reply }
type RemoveReply struct{ ID string }
type AddMedia struct{ Item models.MediaItem }
type RemoveMedia struct{ ID string }

func (UpdateMe) Type() string        { return "profile/updateMe" }
func (Follow) Type() string          { return "profile/follow" }
func (Unfollow) Type() string        { return "profile/unfollow" }
func (AddFollower) Type() string     { return "profile/addFollower" }
func (RemoveFollower) Type() string  { return "profile/removeFollower" }
func (AddFollowing) Type() string    { return "profile/addFollowing" }
func (RemoveFollowing) Type() string { return "profile/removeFollowing" }
func (AddReply) Type() string        { return "profile/addReply" }
func (RemoveReply) Type() string     { return "profile/removeReply" }
func (AddMedia) Type() string        { return "profile/addMedia" }
func (RemoveMedia) Type() string     { return "profile/removeMedia" }

type Store = store.Store[State, Action]

func NewStore(initial State) *Store {
	return store.New[State, Action](initial, Reduce)
}

// DefaultState is the demo profile shown before anything is persisted.
func DefaultState(now time.Time) State {
	return State{
		Me: models.ProfileUser{
			ID:     "me",
			Name:   "You",
			Handle: "you",
			Bio:    "Bio goes here. Building web apps.",
		},
		Followers: []models.User{
			{ID: "u1", Name: "Jane Doe", Handle: "jane", AvatarURL: "/images/logo.png", IsFollowing: true},
			{ID: "u2", Name: "Dev Guy", Handle: "devguy", AvatarURL: "/images/logo.png"},
		},
		Following: []models.User{
			{ID: "u3", Name: "Open Source", Handle: "oss", AvatarURL: "/images/logo.png", IsFollowing: true},
			{ID: "u4", Name: "Design Pro", Handle: "designpro", AvatarURL: "/images/logo.png", IsFollowing: true},
		},
		Replies: []models.Reply{
			{ID: "r1", PostID: "1", Content: "Totally agree with this!", CreatedAt: now},
			{ID: "r2", PostID: "2", Content: "Thanks for sharing.", CreatedAt: now},
		},
		Media: []models.MediaItem{
			{ID: "m1", URL: "/images/logo.png", CreatedAt: now},
		},
	}
}

// Reduce applies a profile action.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case UpdateMe:
		state.Me = applyPatch(state.Me, a.Patch)
	case Follow:
		state = setFollowing(state, a.ID, true)
	case Unfollow:
		state = setFollowing(state, a.ID, false)
	case AddFollower:
		state.Followers = prepend(state.Followers, a.User)
	case RemoveFollower:
		state.Followers = removeWhere(state.Followers, func(u models.User) bool { return u.ID == a.ID })
	case AddFollowing:
		state.Following = prepend(state.Following, a.User)
	case RemoveFollowing:
		state.Following = removeWhere(state.Following, func(u models.User) bool { return u.ID == a.ID })
	case AddReply:
		state.Replies = prepend(state.Replies, a.Reply)
	case RemoveReply:
		state.Replies = removeWhere(state.Replies, func(r models.Reply) bool { return r.ID == a.ID })
	case AddMedia:
		state.Media = prepend(state.Media, a.Item)
	case RemoveMedia:
		state.Media = removeWhere(state.Media, func(m models.MediaItem) bool { return m.ID == a.ID })
	}
	return state
}

func applyPatch(me models.ProfileUser, p Patch) models.ProfileUser {
	if p.Name != nil {
		me.Name = *p.Name
	}
	if p.Handle != nil {
		me.Handle = *p.Handle
	}
	if p.Bio != nil {
		me.Bio = *p.Bio
	}
	if p.AvatarURL != nil {
		me.AvatarURL = *p.AvatarURL
	}
	if p.BannerURL != nil {
		me.BannerURL = *p.BannerURL
	}
	return me
}

// setFollowing flips the first matching user, looking in followers first.
func setFollowing(state State, id string, following bool) State {
	for i, u := range state.Followers {
		if u.ID == id {
			out := append([]models.User(nil), state.Followers...)
			out[i].IsFollowing = following
			state.Followers = out
			return state
		}
	}
	for i, u := range state.Following {
		if u.ID == id {
			out := append([]models.User(nil), state.Following...)
			out[i].IsFollowing = following
			state.Following = out
			return state
		}
	}
	return state
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
