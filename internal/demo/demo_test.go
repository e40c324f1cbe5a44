package demo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-client/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const usersJSON = `{"results":[
 {"login":{"uuid":"a1"},"name":{"first":"Ada","last":"Lovelace"},"picture":{"medium":"https://img/a1.jpg"}},
 {"login":{"uuid":"b2"},"name":{"first":"Alan","last":"Turing"},"picture":{"medium":"https://img/b2.jpg"}}
]}`

func newDemoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "name,login,picture", r.URL.Query().Get("inc"))
		_, _ = w.Write([]byte(usersJSON))
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"t1","body":"b1"},{"id":2,"title":"t2","body":"b2"},{"id":3,"title":"t3","body":"b3"}]`))
	})
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("postId"))
		_, _ = w.Write([]byte(`[{"id":70,"postId":7,"body":"nice"}]`))
	})
	mux.HandleFunc("/api/v1/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "front_page", r.URL.Query().Get("tags"))
		_, _ = w.Write([]byte(`{"hits":[{"objectID":"42","title":"Go 2","url":"https://go.dev","author":"rsc","points":99,"num_comments":12,"created_at_i":1700000000}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(base string) *Client {
	return NewClient(time.Second,
		WithBaseURLs(base, base, base),
		WithClock(func() time.Time { return fixedNow }),
		WithSeed(1),
	)
}

func TestFetchUsers(t *testing.T) {
	srv := newDemoServer(t)
	users := newTestClient(srv.URL).FetchUsers(context.Background(), 2)

	require.Len(t, users, 2)
	assert.Equal(t, models.User{ID: "a1", Name: "Ada Lovelace", Handle: "adalovelace", AvatarURL: "https://img/a1.jpg"}, users[0])
}

func TestFetchPosts(t *testing.T) {
	srv := newDemoServer(t)
	posts := newTestClient(srv.URL).FetchPosts(context.Background(), 3)

	require.Len(t, posts, 3)
	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "t1\n\nb1", posts[0].Content)
	assert.Equal(t, "Ada Lovelace", posts[0].Author.Name)
	assert.Equal(t, "Ada Lovelace", posts[2].Author.Name)
	assert.Len(t, posts[0].Images, 1)
	assert.Empty(t, posts[1].Images)
	assert.Equal(t, fixedNow.Add(-2*time.Hour), posts[2].CreatedAt)
	assert.GreaterOrEqual(t, posts[0].Metrics.Views, 100)
}

func TestFetchCommentsAndStories(t *testing.T) {
	srv := newDemoServer(t)
	c := newTestClient(srv.URL)

	comments := c.FetchComments(context.Background(), "7", 1)
	require.Len(t, comments, 1)
	assert.Equal(t, "7", comments[0].PostID)
	assert.Equal(t, "adalovelace", comments[0].Handle)

	stories := c.FetchStories(context.Background(), 5)
	require.Len(t, stories, 1)
	assert.Equal(t, "Go 2", stories[0].Title)
	assert.Equal(t, 12, stories[0].Comments)
}

func TestFailuresDegradeToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	assert.Empty(t, c.FetchUsers(context.Background(), 3))
	assert.NotNil(t, c.FetchPosts(context.Background(), 3))
	assert.Empty(t, c.FetchStories(context.Background(), 3))
	assert.Empty(t, c.BuildConversations(context.Background(), 3))
}

func TestBuildConversations(t *testing.T) {
	srv := newDemoServer(t)
	convs := newTestClient(srv.URL).BuildConversations(context.Background(), 2)

	require.Len(t, convs, 2)
	assert.Equal(t, "c-a1", convs[0].ID)
	assert.Equal(t, 1, convs[0].UnreadCount)
	assert.Equal(t, 0, convs[1].UnreadCount)
	assert.Equal(t, fixedNow.Add(-2*time.Hour), convs[1].LastMessageAt)
}

func TestBuildThread(t *testing.T) {
	c := newTestClient("http://unused")
	peer := models.Peer{ID: "p", Name: "Pat"}
	msgs := c.BuildThread("c-p", peer, "me")

	require.Len(t, msgs, 5)
	assert.Equal(t, "m-c-p-0", msgs[0].ID)
	assert.Equal(t, "Hi, I'm Pat. Hey! 👋", msgs[0].Text)
	assert.Equal(t, "p", msgs[0].SenderID)
	assert.Equal(t, "me", msgs[1].SenderID)
	assert.Equal(t, 30*time.Minute, msgs[1].CreatedAt.Sub(msgs[0].CreatedAt))
}

func TestUserPostsPrependsOwnPost(t *testing.T) {
	srv := newDemoServer(t)
	c := newTestClient(srv.URL)

	posts := c.UserPosts(context.Background(), &models.AuthUser{Handle: "neo"}, 3)
	require.Len(t, posts, 4)
	assert.Equal(t, "You", posts[0].Author.Name)
	assert.Equal(t, "neo", posts[0].Author.Handle)
	assert.Empty(t, posts[0].Images)

	assert.Len(t, c.UserPosts(context.Background(), nil, 3), 3)
}

func TestTrendingImages(t *testing.T) {
	imgs := TrendingImages(2)
	assert.Equal(t, []string{
		"https://picsum.photos/seed/trend-0/600/400",
		"https://picsum.photos/seed/trend-1/600/400",
	}, imgs)
}
