package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"myblog/app/repositories"
	"myblog/app/session"
)

func setupTestServer(t *testing.T) (*httptest.Server, *repositories.Store) {
	t.Helper()
	store, err := repositories.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := zap.NewNop()
	router, err := Setup(Deps{
		Posts:    store.Posts(),
		Comments: store.Comments(),
		Users:    store.Users(),
		Sessions: session.NewManager("myblog", []byte("test-secret"), 3600, false, log),
		Log:      log,
		PerPage:  10,
		HashCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, server *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// request sends one request without following redirects and returns status,
// Location and body
func (b *browser) request(method, path string, form url.Values, referer string) (int, string, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.base+path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if referer != "" {
		req.Header.Set("Referer", b.base+referer)
	}

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(data)
}

func (b *browser) get(path string) (int, string) {
	status, _, body := b.request(http.MethodGet, path, nil, "")
	return status, body
}

func (b *browser) signUp(name string) {
	b.t.Helper()
	status, location, _ := b.request(http.MethodPost, "/signup", url.Values{
		"name":       {name},
		"password":   {"secret1"},
		"repassword": {"secret1"},
		"gender":     {"m"},
		"bio":        {"test user"},
	}, "/signup")
	require.Equal(b.t, http.StatusFound, status)
	require.Equal(b.t, "/posts", location)

	// The jar only hands back cookies it would send to this plain-HTTP server.
	u, err := url.Parse(b.base)
	require.NoError(b.t, err)
	require.NotEmpty(b.t, b.client.Jar.Cookies(u))
}

func (b *browser) createPost(title, content string) string {
	b.t.Helper()
	status, location, _ := b.request(http.MethodPost, "/posts/create", url.Values{"title": {title}, "content": {content}}, "/posts/create")
	require.Equal(b.t, http.StatusFound, status)
	require.True(b.t, strings.HasPrefix(location, "/posts/"), location)
	return location
}

func TestRootAndStatic(t *testing.T) {
	server, _ := setupTestServer(t)
	b := newBrowser(t, server)

	status, location, _ := b.request(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, "/posts", location)

	status, body := b.get("/static/style.css")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "body")

	status, body = b.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Nothing here.")
}

func TestSignInPersistsOverPlainHTTP(t *testing.T) {
	server, _ := setupTestServer(t)
	alice := newBrowser(t, server)
	alice.signUp("alice")

	status, body := alice.get("/posts/create")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Welcome, alice!")
}

func TestCreateAndViewPost(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()
	alice := newBrowser(t, server)
	alice.signUp("alice")

	path := alice.createPost("T", "C")
	id := strings.TrimPrefix(path, "/posts/")

	post, err := store.Posts().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "C", post.Content)
	assert.Equal(t, "alice", post.Author.Name)
	assert.Equal(t, int64(0), post.PV)

	status, body := alice.get(path)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Post created!")

	raw, err := store.Posts().GetRawByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), raw.PV)

	posts, err := store.Posts().List(ctx, repositories.ListOptions{AuthorID: post.AuthorID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, id, posts[0].ID)

	status, body = alice.get("/posts?author=" + post.AuthorID)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `href="/posts/`+id+`"`)
}

func TestViewCountUnderConcurrency(t *testing.T) {
	server, store := setupTestServer(t)
	alice := newBrowser(t, server)
	alice.signUp("alice")
	path := alice.createPost("popular", "content")
	id := strings.TrimPrefix(path, "/posts/")

	const views = 20
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(server.URL + path)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	raw, err := store.Posts().GetRawByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(views), raw.PV)
}

func TestEmptyPostIsRejected(t *testing.T) {
	server, store := setupTestServer(t)
	alice := newBrowser(t, server)
	alice.signUp("alice")

	for _, form := range []url.Values{
		{"title": {""}, "content": {"C"}},
		{"title": {"T"}, "content": {""}},
	} {
		status, location, _ := alice.request(http.MethodPost, "/posts/create", form, "/posts/create")
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, "/posts/create", location)
	}

	_, body := alice.get("/posts/create")
	assert.Contains(t, body, "Please enter a title!")
	assert.Contains(t, body, "Please enter some content!")

	posts, err := store.Posts().List(context.Background(), repositories.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestNonAuthorCannotTouchPost(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()
	alice := newBrowser(t, server)
	alice.signUp("alice")
	bob := newBrowser(t, server)
	bob.signUp("bob")

	path := alice.createPost("T", "C")
	id := strings.TrimPrefix(path, "/posts/")

	status, location, body := bob.request(http.MethodGet, path+"/edit", nil, path)
	assert.Equal(t, http.StatusFound, status)
	assert.Equal(t, path, location)
	assert.NotContains(t, body, `name="title"`)

	_, body = bob.get(path)
	assert.Contains(t, body, "No permission!")

	bob.request(http.MethodPost, path+"/edit", url.Values{"title": {"X"}, "content": {"Y"}}, path)
	bob.request(http.MethodGet, path+"/remove", nil, path)

	post, err := store.Posts().GetRawByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "C", post.Content)
}

func TestCommentFlow(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()
	alice := newBrowser(t, server)
	alice.signUp("alice")
	bob := newBrowser(t, server)
	bob.signUp("bob")

	path := alice.createPost("T", "C")
	id := strings.TrimPrefix(path, "/posts/")

	t.Run("empty comment on own post", func(t *testing.T) {
		status, location, _ := alice.request(http.MethodPost, "/comments", url.Values{"postId": {id}, "content": {""}}, path)
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, path, location)

		_, body := alice.get(path)
		assert.Contains(t, body, "Please write a comment!")

		count, err := store.Comments().CountByPost(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	var commentID string

	t.Run("comment and remove", func(t *testing.T) {
		status, location, _ := bob.request(http.MethodPost, "/comments", url.Values{"postId": {id}, "content": {"first!"}}, path)
		require.Equal(t, http.StatusFound, status)
		assert.Equal(t, path, location)

		comments, err := store.Comments().ListByPost(ctx, id)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		commentID = comments[0].ID

		// Not the comment's author
		alice.request(http.MethodGet, "/comments/"+commentID+"/remove", nil, path)
		_, err = store.Comments().GetByID(ctx, commentID)
		require.NoError(t, err)

		status, location, _ = bob.request(http.MethodGet, "/comments/"+commentID+"/remove", nil, path)
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, path, location)

		comments, err = store.Comments().ListByPost(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("deleting a post removes its comments", func(t *testing.T) {
		bob.request(http.MethodPost, "/comments", url.Values{"postId": {id}, "content": {"again"}}, path)

		status, location, _ := alice.request(http.MethodGet, path+"/remove", nil, path)
		assert.Equal(t, http.StatusFound, status)
		assert.Equal(t, "/posts", location)

		count, err := store.Comments().CountByPost(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, count)

		status, _ = alice.get(path)
		assert.Equal(t, http.StatusNotFound, status)

		// A second delete is not fatal
		status, _, _ = alice.request(http.MethodGet, path+"/remove", nil, "/posts")
		assert.Equal(t, http.StatusFound, status)
		_, body := alice.get("/posts")
		assert.Contains(t, body, "No such post!")
	})
}

func TestGuestIsSentToSignIn(t *testing.T) {
	server, _ := setupTestServer(t)
	guest := newBrowser(t, server)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/posts/create"},
		{http.MethodPost, "/posts/create"},
		{http.MethodGet, "/posts/1/edit"},
		{http.MethodPost, "/posts/1/edit"},
		{http.MethodGet, "/posts/1/remove"},
		{http.MethodPost, "/comments"},
		{http.MethodGet, "/comments/1/remove"},
		{http.MethodGet, "/signout"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var form url.Values
			if tt.method == http.MethodPost {
				form = url.Values{}
			}
			status, location, _ := guest.request(tt.method, tt.path, form, "")
			assert.Equal(t, http.StatusFound, status)
			assert.Equal(t, "/signin", location)
		})
	}

	_, body := guest.get("/signin")
	assert.Contains(t, body, "Not signed in")
}
