package feed

import (
	"social-client/internal/models"
	"social-client/internal/store"
)

// State holds the home timeline.
type State struct {
	Posts   []models.Post
	Loading bool
}

type Action interface {
	Type() string
}

type SetPosts struct{ Posts []models.Post }
type AddPost struct{ Post models.Post }
type SetLoading struct{ Loading bool }
type ToggleLike struct{ ID string }
type ToggleRepost struct{ ID string }
type IncrementViews struct{ ID string }

func (SetPosts) Type() string       { return "feed/setPosts" }
func (AddPost) Type() string        { return "feed/addPost" }
func (SetLoading) Type() string     { return "feed/setLoading" }
func (ToggleLike) Type() string     { return "feed/toggleLike" }
func (ToggleRepost) Type() string   { return "feed/toggleRepost" }
func (IncrementViews) Type() string { return "feed/incrementViews" }

type Store = store.Store[State, Action]

func NewStore() *Store {
	return store.New[State, Action](State{Posts: []models.Post{}}, Reduce)
}

// Reduce applies a feed action.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetPosts:
		posts := make([]models.Post, len(a.Posts))
		copy(posts, a.Posts)
		state.Posts = posts
	case AddPost:
		posts := make([]models.Post, 0, len(state.Posts)+1)
		posts = append(posts, a.Post)
		state.Posts = append(posts, state.Posts...)
	case SetLoading:
		state.Loading = a.Loading
	case ToggleLike:
		state.Posts = updatePost(state.Posts, a.ID, func(p *models.Post) {
			p.Liked = !p.Liked
			if p.Liked {
				p.Metrics.Likes++
			} else {
				p.Metrics.Likes--
			}
		})
	case ToggleRepost:
		state.Posts = updatePost(state.Posts, a.ID, func(p *models.Post) {
			p.Reposted = !p.Reposted
			if p.Reposted {
				p.Metrics.Reposts++
			} else {
				p.Metrics.Reposts--
			}
		})
	case IncrementViews:
		state.Posts = updatePost(state.Posts, a.ID, func(p *models.Post) {
			p.Metrics.Views++
		})
	}
	return state
}

func updatePost(posts []models.Post, id string, fn func(*models.Post)) []models.Post {
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		out := make([]models.Post, len(posts))
		copy(out, posts)
		fn(&out[i])
		return out
	}
	return posts
}
