package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/anvesh42/foodblog/internal/handlers"
	"github.com/anvesh42/foodblog/internal/media"
	"github.com/anvesh42/foodblog/internal/middleware"
	"github.com/anvesh42/foodblog/internal/models"
	"github.com/anvesh42/foodblog/internal/notify"
	"github.com/anvesh42/foodblog/internal/repositories"
	"github.com/anvesh42/foodblog/internal/session"
	"github.com/anvesh42/foodblog/validators"
)

// In-memory repository fakes. They reproduce the repository contracts
// (sentinel errors, set semantics on the follow relation, newest-first
// ordering) without a database. Every method takes the fake's mutex so
// concurrent requests behave like they would against the real store.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, query string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

// GetUsersByIDs returns matches in storage order, not in ids order,
// mirroring what an $in query comes back with.
func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for id, u := range r.users {
		if containsID(ids, id) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (r *fakeUserRepo) AddFollower(_ context.Context, targetID, followerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.users[targetID]
	follower, ok2 := r.users[followerID]
	if !ok || !ok2 {
		return repositories.ErrNotFound
	}
	if !containsID(target.Followers, followerID) {
		target.Followers = append(target.Followers, followerID)
	}
	if !containsID(follower.IsFollowerOf, targetID) {
		follower.IsFollowerOf = append(follower.IsFollowerOf, targetID)
	}
	return nil
}

func (r *fakeUserRepo) RemoveFollower(_ context.Context, targetID, followerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.users[targetID]
	follower, ok2 := r.users[followerID]
	if !ok || !ok2 {
		return repositories.ErrNotFound
	}
	target.Followers = removeID(target.Followers, followerID)
	follower.IsFollowerOf = removeID(follower.IsFollowerOf, targetID)
	return nil
}

func (r *fakeUserRepo) AddCommenter(_ context.Context, userID, commenterID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Commenters = append(u.Commenters, commenterID)
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, email, token string, expires time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.ResetPasswordToken = token
			u.ResetPasswordExpires = expires
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByResetToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken == token && u.ResetPasswordExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) ResetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = time.Time{}
	return nil
}

type fakeBlogRepo struct {
	mu    sync.Mutex
	blogs map[primitive.ObjectID]*models.Blog
	order []primitive.ObjectID
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[primitive.ObjectID]*models.Blog)}
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog.ID = primitive.NewObjectID()
	blog.Created = time.Now()
	cp := *blog
	r.blogs[blog.ID] = &cp
	r.order = append(r.order, blog.ID)
	return nil
}

func (r *fakeBlogRepo) GetBlogByID(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// all returns blogs newest first, matching the repository sort. Callers
// must hold the mutex.
func (r *fakeBlogRepo) allLocked() []models.Blog {
	out := make([]models.Blog, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if b, ok := r.blogs[r.order[i]]; ok {
			out = append(out, *b)
		}
	}
	return out
}

func (r *fakeBlogRepo) all() []models.Blog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allLocked()
}

func (r *fakeBlogRepo) GetAllBlogs(_ context.Context) ([]models.Blog, error) {
	return r.all(), nil
}

func (r *fakeBlogRepo) SearchBlogs(_ context.Context, query string) ([]models.Blog, error) {
	var out []models.Blog
	for _, b := range r.all() {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(query)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) GetBlogsByAuthor(_ context.Context, authorID primitive.ObjectID) ([]models.Blog, error) {
	var out []models.Blog
	for _, b := range r.all() {
		if b.Author.ID == authorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) GetBlogsByAuthors(_ context.Context, authorIDs []primitive.ObjectID) ([]models.Blog, error) {
	var out []models.Blog
	for _, b := range r.all() {
		if containsID(authorIDs, b.Author.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) UpdateBlog(_ context.Context, blog *models.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.blogs[blog.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Title = blog.Title
	stored.Body = blog.Body
	stored.Image = blog.Image
	stored.ImageID = blog.ImageID
	return nil
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

func (r *fakeBlogRepo) AddComment(_ context.Context, blogID, commentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[blogID]
	if !ok {
		return repositories.ErrNotFound
	}
	b.Comments = append(b.Comments, commentID)
	return nil
}

func (r *fakeBlogRepo) RemoveComment(_ context.Context, blogID, commentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[blogID]
	if !ok {
		return repositories.ErrNotFound
	}
	b.Comments = removeID(b.Comments, commentID)
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.Created = time.Now()
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) GetCommentsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, id := range ids {
		if c, ok := r.comments[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateComment(_ context.Context, id primitive.ObjectID, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Body = body
	return nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

type fakeNotifRepo struct {
	mu        sync.Mutex
	posts     []*models.PostNotification
	comments  []*models.CommentNotification
	followers []*models.FollowerNotification
}

func newFakeNotifRepo() *fakeNotifRepo { return &fakeNotifRepo{} }

func (r *fakeNotifRepo) CreatePostNotification(_ context.Context, n *models.PostNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	cp := *n
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *fakeNotifRepo) CreateCommentNotification(_ context.Context, n *models.CommentNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	cp := *n
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *fakeNotifRepo) CreateFollowerNotification(_ context.Context, n *models.FollowerNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	cp := *n
	r.followers = append(r.followers, &cp)
	return nil
}

func (r *fakeNotifRepo) GetPostNotifications(_ context.Context, recipient primitive.ObjectID) ([]models.PostNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PostNotification{}
	for i := len(r.posts) - 1; i >= 0; i-- {
		if r.posts[i].Recipient == recipient {
			out = append(out, *r.posts[i])
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) GetCommentNotifications(_ context.Context, recipient primitive.ObjectID) ([]models.CommentNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.CommentNotification{}
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].Recipient == recipient {
			out = append(out, *r.comments[i])
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) GetFollowerNotifications(_ context.Context, recipient primitive.ObjectID) ([]models.FollowerNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.FollowerNotification{}
	for i := len(r.followers) - 1; i >= 0; i-- {
		if r.followers[i].Recipient == recipient {
			out = append(out, *r.followers[i])
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) GetPostNotificationByID(_ context.Context, id primitive.ObjectID) (*models.PostNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.posts {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotifRepo) GetCommentNotificationByID(_ context.Context, id primitive.ObjectID) (*models.CommentNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.comments {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotifRepo) GetFollowerNotificationByID(_ context.Context, id primitive.ObjectID) (*models.FollowerNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.followers {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotifRepo) MarkPostNotificationRead(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.posts {
		if n.ID == id {
			n.IsBlogRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotifRepo) MarkCommentNotificationRead(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.comments {
		if n.ID == id {
			n.IsCommentRead = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotifRepo) MarkFollowerNotificationSeen(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.followers {
		if n.ID == id {
			n.IsFollowerSeen = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotifRepo) MarkAllRead(_ context.Context, recipient primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.posts {
		if n.Recipient == recipient {
			n.IsBlogRead = true
		}
	}
	for _, n := range r.comments {
		if n.Recipient == recipient {
			n.IsCommentRead = true
		}
	}
	for _, n := range r.followers {
		if n.Recipient == recipient {
			n.IsFollowerSeen = true
		}
	}
	return nil
}

func (r *fakeNotifRepo) DeletePostNotificationsByBlog(_ context.Context, blogID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.posts[:0]
	for _, n := range r.posts {
		if n.BlogID != blogID {
			kept = append(kept, n)
		}
	}
	r.posts = kept
	return nil
}

func (r *fakeNotifRepo) DeleteCommentNotificationsByComment(_ context.Context, commentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.comments[:0]
	for _, n := range r.comments {
		if n.CommentID != commentID {
			kept = append(kept, n)
		}
	}
	r.comments = kept
	return nil
}

// fakeUploader records uploads and destroys. It enforces the same
// extension allow-list as the real adapter.
type fakeUploader struct {
	mu         sync.Mutex
	uploads    []string
	destroyed  []string
	destroyErr error
	nextID     int
}

func (u *fakeUploader) Upload(_ context.Context, _ io.Reader, filename string) (*media.Asset, error) {
	if !media.AllowedImage(filename) {
		return nil, media.ErrUnsupportedType
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextID++
	id := "asset-" + strconv.Itoa(u.nextID)
	u.uploads = append(u.uploads, id)
	return &media.Asset{URL: "https://img.test/" + id, PublicID: id}, nil
}

func (u *fakeUploader) Destroy(_ context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.destroyErr != nil {
		return u.destroyErr
	}
	u.destroyed = append(u.destroyed, publicID)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// testApp wires the full route surface against the fakes, with sessions
// in a signed cookie instead of Mongo.
type testApp struct {
	e        *echo.Echo
	users    *fakeUserRepo
	blogs    *fakeBlogRepo
	comments *fakeCommentRepo
	notifs   *fakeNotifRepo
	uploader *fakeUploader
	mailer   *fakeMailer
	sess     *session.Manager
}

const testAdminCode = "let-me-in"

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	app := &testApp{
		users:    newFakeUserRepo(),
		blogs:    newFakeBlogRepo(),
		comments: newFakeCommentRepo(),
		notifs:   newFakeNotifRepo(),
		uploader: &fakeUploader{},
		mailer:   &fakeMailer{},
	}

	store := sessions.NewCookieStore([]byte("test-secret"))
	app.sess = session.NewManager(store, "test_session")

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Use(middleware.LoadUser(app.sess, app.users))

	requireLogin := middleware.RequireLogin(app.sess)
	requireBlogOwner := middleware.RequireBlogOwner(app.sess, app.blogs)
	requireCommentOwner := middleware.RequireCommentOwner(app.sess, app.comments)
	requireProfileOwner := middleware.RequireProfileOwner(app.sess, app.users)

	fanout := notify.NewFanout(app.users, app.notifs)

	handlers.NewAuthHandler(app.users, app.uploader, app.sess, testAdminCode).RegisterAuthRoutes(e)
	handlers.NewBlogHandler(app.blogs, app.users, app.comments, app.notifs, app.uploader, fanout, app.sess).
		RegisterBlogRoutes(e, requireLogin, requireBlogOwner)
	handlers.NewFeedHandler(app.blogs, app.users, app.sess).RegisterFeedRoutes(e, requireLogin)
	handlers.NewCommentHandler(app.comments, app.blogs, app.users, app.notifs, fanout, app.sess).
		RegisterCommentRoutes(e, requireLogin, requireCommentOwner)
	handlers.NewUserHandler(app.users, app.blogs, app.uploader, app.sess, testAdminCode).
		RegisterProfileRoutes(e, requireLogin, requireProfileOwner)
	handlers.NewFollowHandler(app.users, fanout, app.sess).RegisterFollowRoutes(e, requireLogin)
	handlers.NewNotificationHandler(app.notifs, app.sess).RegisterNotificationRoutes(e, requireLogin)
	handlers.NewPasswordResetHandler(app.users, app.mailer, app.sess).RegisterResetRoutes(e)

	app.e = e
	return app
}

// seedUser inserts a user directly with a bcrypt hash of the password.
func (a *testApp) seedUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Username: username, Email: email, Password: string(hash)}
	if err := a.users.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// client carries cookies across requests like a browser would.
type client struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, app: a, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form)
}

// login signs the client in through the real login route.
func (c *client) login(username, password string) {
	c.t.Helper()
	rec := c.postForm("/login", url.Values{"username": {username}, "password": {password}})
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/blogs" {
		c.t.Fatalf("login redirected to %q, want /blogs", loc)
	}
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != location {
		t.Fatalf("redirect location = %q, want %q", loc, location)
	}
}
