package demo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"social-client/internal/models"
)

const (
	DefaultUserCount         = 12
	DefaultPostCount         = 8
	DefaultCommentCount      = 3
	DefaultConversationCount = 6
	DefaultStoryCount        = 10
)

var threadTexts = []string{
	"Hey! 👋",
	"How's it going?",
	"Just testing this chat UI.",
	"Looks pretty nice!",
	"Let's ship it. 🚀",
}

type randomUserResponse struct {
	Results []struct {
		Login struct {
			UUID string `json:"uuid"`
		} `json:"login"`
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Picture struct {
			Medium string `json:"medium"`
		} `json:"picture"`
	} `json:"results"`
}

type placeholderPost struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type placeholderComment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Body   string `json:"body"`
}

type hnResponse struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Author      string `json:"author"`
		Points      int    `json:"points"`
		NumComments int    `json:"num_comments"`
		CreatedAtI  int64  `json:"created_at_i"`
	} `json:"hits"`
}

// FetchUsers returns random demo people.
func (c *Client) FetchUsers(ctx context.Context, count int) []models.User {
	if count <= 0 {
		count = DefaultUserCount
	}
	var resp randomUserResponse
	u := query(c.randomUserURL, "/api/", url.Values{"results": {itoa(count)}, "inc": {"name,login,picture"}})
	if err := c.getJSON(ctx, "randomuser", u, &resp); err != nil {
		return []models.User{}
	}

	users := make([]models.User, 0, len(resp.Results))
	for _, r := range resp.Results {
		users = append(users, models.User{
			ID:        r.Login.UUID,
			Name:      r.Name.First + " " + r.Name.Last,
			Handle:    strings.ToLower(r.Name.First + r.Name.Last),
			AvatarURL: r.Picture.Medium,
		})
	}
	return users
}

// FetchPosts builds feed posts from placeholder content with random authors.
// Even-indexed posts carry an image and timestamps are spaced an hour apart.
func (c *Client) FetchPosts(ctx context.Context, count int) []models.Post {
	if count <= 0 {
		count = DefaultPostCount
	}

	var (
		wg      sync.WaitGroup
		authors []models.User
		raw     []placeholderPost
		postErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		authors = c.FetchUsers(ctx, count)
	}()
	go func() {
		defer wg.Done()
		u := query(c.placeholderURL, "/posts", url.Values{"_limit": {itoa(count)}})
		postErr = c.getJSON(ctx, "jsonplaceholder_posts", u, &raw)
	}()
	wg.Wait()
	if postErr != nil {
		return []models.Post{}
	}

	now := c.now()
	posts := make([]models.Post, 0, len(raw))
	for i, p := range raw {
		a := authorAt(authors, i)
		post := models.Post{
			ID:        strconv.Itoa(p.ID),
			Author:    a,
			Content:   p.Title + "\n\n" + p.Body,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
			Metrics: models.PostMetrics{
				Replies: c.intn(30),
				Reposts: c.intn(20),
				Likes:   c.intn(200),
				Views:   100 + c.intn(5000),
			},
		}
		if i%2 == 0 {
			post.Images = []string{fmt.Sprintf("https://picsum.photos/seed/post-%d/800/450", p.ID)}
		}
		posts = append(posts, post)
	}
	return posts
}

func authorAt(users []models.User, i int) models.Author {
	if len(users) == 0 {
		return models.Author{Name: "Anonymous", Handle: "anonymous"}
	}
	u := users[i%len(users)]
	return models.Author{Name: u.Name, Handle: u.Handle, AvatarURL: u.AvatarURL}
}

// FetchComments returns replies for a post, attributed to random people.
func (c *Client) FetchComments(ctx context.Context, postID string, count int) []models.PostComment {
	if count <= 0 {
		count = DefaultCommentCount
	}
	var raw []placeholderComment
	u := query(c.placeholderURL, "/comments", url.Values{"postId": {postID}, "_limit": {itoa(count)}})
	if err := c.getJSON(ctx, "jsonplaceholder_comments", u, &raw); err != nil {
		return []models.PostComment{}
	}
	commenters := c.FetchUsers(ctx, count)

	now := c.now()
	comments := make([]models.PostComment, 0, len(raw))
	for i, cm := range raw {
		a := authorAt(commenters, i)
		comments = append(comments, models.PostComment{
			ID:        strconv.Itoa(cm.ID),
			PostID:    strconv.Itoa(cm.PostID),
			Name:      a.Name,
			Handle:    a.Handle,
			AvatarURL: a.AvatarURL,
			Content:   cm.Body,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return comments
}

// FetchStories returns the current Hacker News front page.
func (c *Client) FetchStories(ctx context.Context, count int) []models.Story {
	if count <= 0 {
		count = DefaultStoryCount
	}
	var resp hnResponse
	u := query(c.hackerNewsURL, "/api/v1/search", url.Values{"tags": {"front_page"}, "hitsPerPage": {itoa(count)}})
	if err := c.getJSON(ctx, "hackernews", u, &resp); err != nil {
		return []models.Story{}
	}

	stories := make([]models.Story, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		if len(stories) == count {
			break
		}
		stories = append(stories, models.Story{
			ID:        h.ObjectID,
			Title:     h.Title,
			URL:       h.URL,
			Author:    h.Author,
			Points:    h.Points,
			Comments:  h.NumComments,
			CreatedAt: time.Unix(h.CreatedAtI, 0).UTC(),
		})
	}
	return stories
}

// TrendingImages returns stable placeholder image URLs.
func TrendingImages(count int) []string {
	if count <= 0 {
		count = DefaultPostCount
	}
	out := make([]string, count)
	for i := range out {
		out[i] = fmt.Sprintf("https://picsum.photos/seed/trend-%d/600/400", i)
	}
	return out
}

// BuildConversations creates one conversation per random person, two hours apart.
func (c *Client) BuildConversations(ctx context.Context, count int) []models.Conversation {
	if count <= 0 {
		count = DefaultConversationCount
	}
	users := c.FetchUsers(ctx, count)
	now := c.now()
	convs := make([]models.Conversation, 0, len(users))
	for i, u := range users {
		unread := 0
		if i%3 == 0 {
			unread = 1 + i%2
		}
		convs = append(convs, models.Conversation{
			ID:            "c-" + u.ID,
			Peer:          models.Peer{ID: u.ID, Name: u.Name, Handle: u.Handle, AvatarURL: u.AvatarURL},
			LastMessageAt: now.Add(-time.Duration(i) * 2 * time.Hour),
			UnreadCount:   unread,
		})
	}
	return convs
}

// BuildThread returns a short scripted exchange that alternates between the
// peer and selfID, starting six hours ago with thirty-minute spacing.
func (c *Client) BuildThread(conversationID string, peer models.Peer, selfID string) []models.Message {
	base := c.now().Add(-6 * time.Hour)
	msgs := make([]models.Message, 0, len(threadTexts))
	for i, text := range threadTexts {
		sender := selfID
		if i%2 == 0 {
			sender = peer.ID
		}
		if i == 0 {
			text = fmt.Sprintf("Hi, I'm %s. %s", peer.Name, text)
		}
		msgs = append(msgs, models.Message{
			ID:             fmt.Sprintf("m-%s-%d", conversationID, i),
			ConversationID: conversationID,
			SenderID:       sender,
			Text:           text,
			CreatedAt:      base.Add(time.Duration(i) * 30 * time.Minute),
			Status:         models.StatusRead,
		})
	}
	return msgs
}

// UserPosts prepends a welcome post by the given user to the demo posts.
// A nil user yields the demo posts alone.
func (c *Client) UserPosts(ctx context.Context, user *models.AuthUser, count int) []models.Post {
	posts := c.FetchPosts(ctx, count)
	if user == nil {
		return posts
	}

	now := c.now()
	own := models.Post{
		ID: fmt.Sprintf("user-%d", now.UnixMilli()),
		Author: models.Author{
			Name:      firstNonEmpty(user.Name, "You"),
			Handle:    firstNonEmpty(user.Handle, "you"),
			AvatarURL: user.AvatarURL,
		},
		Content:   "This is my first post! Welcome to my profile.",
		CreatedAt: now,
		Metrics:   models.PostMetrics{Likes: 2, Views: 15},
	}
	if user.AvatarURL != "" {
		own.Images = []string{user.AvatarURL}
	}
	return append([]models.Post{own}, posts...)
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
