package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/gossip/api"
	"github.com/cppla/gossip/config"
	"github.com/cppla/gossip/models"
	"github.com/cppla/gossip/routes"
	"github.com/cppla/gossip/utils"
)

// fakeForum records every call instead of talking to a forum API.
type fakeForum struct {
	mu       sync.Mutex
	calls    []string
	topics   []models.Topic
	posts    map[int64][]models.Post
	comments map[int64][]models.Comment
	failWith map[string]error
	loginTok string
}

func newFakeForum() *fakeForum {
	base := time.Date(2025, 12, 16, 10, 0, 0, 0, time.UTC)
	return &fakeForum{
		topics: []models.Topic{
			{ID: 1, Name: "Mine", Description: "owned by alice", UserID: 7, Username: "alice", CreatedAt: models.Timestamp{Time: base}},
			{ID: 2, Name: "Theirs", Description: "owned by bob", UserID: 8, Username: "bob", CreatedAt: models.Timestamp{Time: base.Add(time.Hour)}},
		},
		posts: map[int64][]models.Post{
			1: {
				{ID: 10, Title: "My post", Content: "hello", TopicID: 1, UserID: 7, Username: "alice", CreatedAt: models.Timestamp{Time: base}},
				{ID: 11, Title: "Bob post", Content: "world", TopicID: 1, UserID: 8, Username: "bob", CreatedAt: models.Timestamp{Time: base.Add(time.Minute)}},
			},
		},
		comments: map[int64][]models.Comment{
			10: {
				{ID: 100, Content: "first!", PostID: 10, UserID: 8, Username: "bob", CreatedAt: models.Timestamp{Time: base}},
				{ID: 101, Content: "thanks", PostID: 10, UserID: 7, Username: "alice", CreatedAt: models.Timestamp{Time: base.Add(time.Minute)}},
			},
		},
		failWith: map[string]error{},
	}
}

func (f *fakeForum) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.failWith[name]
}

func (f *fakeForum) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeForum) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeForum) Login(ctx context.Context, username, password string) (api.LoginResult, error) {
	if err := f.record("Login"); err != nil {
		return api.LoginResult{}, err
	}
	return api.LoginResult{Token: f.loginTok}, nil
}

func (f *fakeForum) Register(ctx context.Context, username, password string) error {
	return f.record("Register")
}

func (f *fakeForum) FetchTopics(ctx context.Context, _ api.Credentials) ([]models.Topic, error) {
	if err := f.record("FetchTopics"); err != nil {
		return nil, err
	}
	return append([]models.Topic(nil), f.topics...), nil
}

func (f *fakeForum) AddTopic(ctx context.Context, _ api.Credentials, name, description string) error {
	return f.record("AddTopic")
}

func (f *fakeForum) UpdateTopic(ctx context.Context, _ api.Credentials, id int64, name, description string) error {
	return f.record("UpdateTopic")
}

func (f *fakeForum) DeleteTopic(ctx context.Context, _ api.Credentials, id int64) error {
	return f.record("DeleteTopic")
}

func (f *fakeForum) FetchPosts(ctx context.Context, _ api.Credentials, topicID int64) ([]models.Post, error) {
	if err := f.record("FetchPosts"); err != nil {
		return nil, err
	}
	return append([]models.Post(nil), f.posts[topicID]...), nil
}

func (f *fakeForum) AddPost(ctx context.Context, _ api.Credentials, topicID int64, title, content string) error {
	return f.record("AddPost")
}

func (f *fakeForum) UpdatePost(ctx context.Context, _ api.Credentials, id int64, title, content string) error {
	return f.record("UpdatePost")
}

func (f *fakeForum) DeletePost(ctx context.Context, _ api.Credentials, id int64) error {
	return f.record("DeletePost")
}

func (f *fakeForum) FetchComments(ctx context.Context, _ api.Credentials, postID int64) ([]models.Comment, error) {
	if err := f.record("FetchComments"); err != nil {
		return nil, err
	}
	return append([]models.Comment(nil), f.comments[postID]...), nil
}

func (f *fakeForum) AddComment(ctx context.Context, _ api.Credentials, postID int64, content string) error {
	return f.record("AddComment")
}

func (f *fakeForum) UpdateComment(ctx context.Context, _ api.Credentials, id int64, content string) error {
	return f.record("UpdateComment")
}

func (f *fakeForum) DeleteComment(ctx context.Context, _ api.Credentials, id int64) error {
	return f.record("DeleteComment")
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		App: config.AppSection{
			GinMode:        "test",
			AllowedOrigins: []string{"*"},
			TokenStorage:   config.StorageMemory,
			TokenTTL:       time.Hour,
		},
		API:    config.APISection{BaseURL: "http://forum.invalid", Timeout: time.Second},
		Cookie: config.CookieSection{SessionCookie: "gossip_sid", TokenCookie: "access_token"},
	}
}

func newRouter(t *testing.T, forum *fakeForum) *gin.Engine {
	t.Helper()
	r, err := routes.SetupRouter(testConfig(), utils.NewMemoryTokenStorage(), forum)
	require.NoError(t, err)
	return r
}

func signed(t *testing.T, userID int64, username string) string {
	t.Helper()
	claims := utils.Claims{UserID: userID, Username: username}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

// do sends a request as alice (user 7) unless token is empty.
func do(t *testing.T, r http.Handler, method, target string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCreateTopicWithEmptyTitleSendsNothing(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/topics/new", url.Values{"name": {"   "}, "description": {"d"}}, signed(t, 7, "alice"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please Enter A Title")
	assert.Zero(t, forum.callCount())
}

func TestCreateTopicSuccessRedirectsWithNotice(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/topics/new", url.Values{"name": {"Go"}, "description": {"all things go"}}, signed(t, 7, "alice"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/topics", rec.Header().Get("Location"))
	assert.Equal(t, 1, forum.called("AddTopic"))
	require.NotNil(t, cookie(rec, "gossip_flash"))

	// The owning screen refetches and shows the notice once.
	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signed(t, 7, "alice")})
	req.AddCookie(cookie(rec, "gossip_flash"))
	page := httptest.NewRecorder()
	r.ServeHTTP(page, req)
	assert.Contains(t, page.Body.String(), "Topic Created Successfully!")
	assert.Equal(t, 1, forum.called("FetchTopics"))
}

func TestCreateTopicFailureStaysOpen(t *testing.T) {
	forum := newFakeForum()
	forum.failWith["AddTopic"] = errors.New("topic name already exists")
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/topics/new", url.Values{"name": {"Go"}}, signed(t, 7, "alice"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Topic Name Already Exists")
	assert.Contains(t, body, `value="Go"`)
}

func TestCreateTopicEmptyFailureUsesFallback(t *testing.T) {
	forum := newFakeForum()
	forum.failWith["AddTopic"] = &api.Error{Endpoint: "/addTopic", Status: 500, Message: ""}
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/topics/new", url.Values{"name": {"Go"}}, signed(t, 7, "alice"))
	assert.Contains(t, rec.Body.String(), "Failed To Create Topic")
}

func TestTopicsOwnershipControls(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	body := do(t, r, http.MethodGet, "/topics", nil, signed(t, 7, "alice")).Body.String()
	assert.Contains(t, body, `href="/topics/1/edit"`)
	assert.Contains(t, body, `href="/topics/1/delete"`)
	assert.NotContains(t, body, `href="/topics/2/edit"`)
	assert.NotContains(t, body, `href="/topics/2/delete"`)
	assert.Contains(t, body, "Welcome, alice")

	body = do(t, r, http.MethodGet, "/topics", nil, signed(t, 8, "bob")).Body.String()
	assert.NotContains(t, body, `href="/topics/1/edit"`)
	assert.Contains(t, body, `href="/topics/2/edit"`)
}

func TestTopicsNewestFirstAndFiltered(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)
	tok := signed(t, 7, "alice")

	body := do(t, r, http.MethodGet, "/topics", nil, tok).Body.String()
	assert.Less(t, strings.Index(body, "Theirs"), strings.Index(body, "Mine"))

	body = do(t, r, http.MethodGet, "/topics?q=BOB", nil, tok).Body.String()
	assert.Contains(t, body, "Theirs")
	assert.NotContains(t, body, `data-id="1"`)

	body = do(t, r, http.MethodGet, "/topics?q=zzz", nil, tok).Body.String()
	assert.Contains(t, body, "No topics found.")
}

func TestTopicsFetchFailureShowsNotice(t *testing.T) {
	forum := newFakeForum()
	forum.failWith["FetchTopics"] = errors.New("database unavailable")
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodGet, "/topics", nil, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Database Unavailable")
}

func TestPostsOwnershipControls(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	body := do(t, r, http.MethodGet, "/topics/1/posts", nil, signed(t, 7, "alice")).Body.String()
	assert.Contains(t, body, `href="/topics/1/posts/10/delete"`)
	assert.NotContains(t, body, `href="/topics/1/posts/11/delete"`)
	assert.Contains(t, body, "<h1>Mine</h1>")
}

func TestDeleteForeignPostIsRefused(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/topics/1/posts/11/delete", url.Values{}, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "You Can Only Change Your Own Posts")
	assert.Contains(t, rec.Body.String(), "Bob post")
	assert.Zero(t, forum.called("DeletePost"))

	rec = do(t, r, http.MethodGet, "/topics/1/posts/11/delete", nil, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/topics/1/posts", rec.Header().Get("Location"))
}

func TestDeleteOwnPost(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodGet, "/topics/1/posts/10/delete", nil, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "My post")

	rec = do(t, r, http.MethodPost, "/topics/1/posts/10/delete", url.Values{}, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, forum.called("DeletePost"))
}

func TestFailedDeleteKeepsItemName(t *testing.T) {
	forum := newFakeForum()
	forum.failWith["DeleteTopic"] = errors.New("server down")
	forum.failWith["DeletePost"] = errors.New("")
	r := newRouter(t, forum)
	tok := signed(t, 7, "alice")

	rec := do(t, r, http.MethodPost, "/topics/1/delete", url.Values{}, tok)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server Down")
	assert.Contains(t, rec.Body.String(), "Mine")
	assert.NotContains(t, rec.Body.String(), "this topic")

	rec = do(t, r, http.MethodPost, "/topics/1/posts/10/delete", url.Values{}, tok)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed To Delete Post")
	assert.Contains(t, rec.Body.String(), "My post")
	assert.NotContains(t, rec.Body.String(), "this post")
}

func TestEditPostPrefillsAndValidates(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)
	tok := signed(t, 7, "alice")

	body := do(t, r, http.MethodGet, "/topics/1/posts/10/edit", nil, tok).Body.String()
	assert.Contains(t, body, `value="My post"`)
	assert.Contains(t, body, "hello</textarea>")

	before := forum.callCount()
	rec := do(t, r, http.MethodPost, "/topics/1/posts/10/edit", url.Values{"title": {"New"}, "content": {""}}, tok)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please Enter Content")
	assert.Equal(t, before, forum.callCount())

	rec = do(t, r, http.MethodPost, "/topics/1/posts/10/edit", url.Values{"title": {"New"}, "content": {"body"}}, tok)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, forum.called("UpdatePost"))
}

func TestPostDetailShowsCommentsWithOwnership(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	body := do(t, r, http.MethodGet, "/topics/1/posts/10", nil, signed(t, 7, "alice")).Body.String()
	assert.Contains(t, body, "first!")
	assert.Contains(t, body, "thanks")
	assert.Contains(t, body, `href="/topics/1/posts/10/comments/101/edit"`)
	assert.NotContains(t, body, `href="/topics/1/posts/10/comments/100/edit"`)
	assert.Less(t, strings.Index(body, "thanks"), strings.Index(body, "first!"))
}

func TestPostDetailUnknownPost(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodGet, "/topics/1/posts/999", nil, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/topics/1/posts", rec.Header().Get("Location"))
}

func TestAddCommentValidationAndSuccess(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)
	tok := signed(t, 7, "alice")

	rec := do(t, r, http.MethodPost, "/topics/1/posts/10/comments", url.Values{"content": {""}}, tok)
	assert.Contains(t, rec.Body.String(), "Please Enter A Comment")
	assert.Zero(t, forum.callCount())

	rec = do(t, r, http.MethodPost, "/topics/1/posts/10/comments", url.Values{"content": {"nice"}}, tok)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/topics/1/posts/10", rec.Header().Get("Location"))
	assert.Equal(t, 1, forum.called("AddComment"))
}

func TestUpdateCommentRequiresOwnership(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)
	tok := signed(t, 7, "alice")

	rec := do(t, r, http.MethodPost, "/topics/1/posts/10/comments/100/edit", url.Values{"content": {"edited"}}, tok)
	assert.Contains(t, rec.Body.String(), "You Can Only Change Your Own Comments")
	assert.Zero(t, forum.called("UpdateComment"))

	rec = do(t, r, http.MethodPost, "/topics/1/posts/10/comments/101/edit", url.Values{"content": {"edited"}}, tok)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, forum.called("UpdateComment"))
}

func TestProtectedScreensRedirectAnonymous(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodGet, "/topics", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, forum.callCount())
}

func TestLoginFlow(t *testing.T) {
	forum := newFakeForum()
	forum.loginTok = signed(t, 7, "alice")
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"secret"}}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/topics", rec.Header().Get("Location"))
	sid := cookie(rec, "gossip_sid")
	require.NotNil(t, sid)

	// The stored token authenticates the next request through the session cookie alone.
	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	req.AddCookie(sid)
	page := httptest.NewRecorder()
	r.ServeHTTP(page, req)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Welcome, alice")
}

func TestLoginRejected(t *testing.T) {
	forum := newFakeForum()
	forum.failWith["Login"] = &api.Error{Endpoint: "/login", Status: 401, Message: "invalid credentials"}
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"nope"}}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Credentials")
	assert.Nil(t, cookie(rec, "gossip_sid"))
}

func TestLoginValidation(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/login", url.Values{"username": {""}, "password": {"x"}}, "")
	assert.Contains(t, rec.Body.String(), "Please Enter A Username")
	assert.Zero(t, forum.callCount())
}

func TestRegisterKeepsVisitorAnonymous(t *testing.T) {
	forum := newFakeForum()
	r := newRouter(t, forum)

	rec := do(t, r, http.MethodPost, "/register", url.Values{"username": {"bob"}, "password": {"pw"}}, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Nil(t, cookie(rec, "gossip_sid"))
	assert.Equal(t, 1, forum.called("Register"))
}

func TestSignedInVisitorSkipsLogin(t *testing.T) {
	r := newRouter(t, newFakeForum())
	rec := do(t, r, http.MethodGet, "/login", nil, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/topics", rec.Header().Get("Location"))
}

func TestLogoutExpiresToken(t *testing.T) {
	r := newRouter(t, newFakeForum())
	rec := do(t, r, http.MethodPost, "/logout", nil, signed(t, 7, "alice"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	c := cookie(rec, "access_token")
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}
