package models

import "time"

// User is a searchable account.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	IsFollowing bool   `json:"is_following,omitempty"`
}

// ProfileUser is the signed-in user's own profile.
type ProfileUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	BannerURL string `json:"banner_url,omitempty"`
}

// ProfileData is the locally persisted profile.
type ProfileData struct {
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	BannerURL string `json:"bannerUrl,omitempty"`
}

// WhoToFollow is a follow suggestion kept in local storage.
type WhoToFollow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsFollowing bool   `json:"isFollowing,omitempty"`
}

// AuthUser is the identity held by an authenticated session.
type AuthUser struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Handle    string   `json:"handle,omitempty"`
	Email     string   `json:"email,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Following []string `json:"following,omitempty"`
}

// Reply is a reply authored by the profile owner.
type Reply struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MediaItem is an uploaded image shown on the profile.
type MediaItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
