package models

import "time"

// Author is the public identity attached to a post.
type Author struct {
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// PostMetrics holds engagement counters for a post.
type PostMetrics struct {
	Replies int `json:"replies"`
	Reposts int `json:"reposts"`
	Likes   int `json:"likes"`
	Views   int `json:"views"`
}

// Post is an entry in the content feed.
type Post struct {
	ID        string      `json:"id"`
	Author    Author      `json:"author"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Images    []string    `json:"images,omitempty"`
	Metrics   PostMetrics `json:"metrics"`
	Liked     bool        `json:"liked,omitempty"`
	Reposted  bool        `json:"reposted,omitempty"`
}

// PostComment is a reply shown under a post.
type PostComment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Story is a front-page link from Hacker News.
type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Author    string    `json:"author"`
	Points    int       `json:"points"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}
