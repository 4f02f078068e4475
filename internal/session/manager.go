package session

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	userIDKey    = "userID"
	flashError   = "error"
	flashSuccess = "success"
)

// Flashes holds the drained one-shot messages for a rendered view.
type Flashes struct {
	Error   []string `json:"error,omitempty"`
	Success []string `json:"success,omitempty"`
}

// Manager wraps a sessions.Store with the identity and flash-message
// operations the handlers need. Any Store implementation works; production
// uses the MongoStore, tests use a CookieStore.
type Manager struct {
	store sessions.Store
	name  string
}

// NewManager creates a session manager using the given cookie name.
func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

func (m *Manager) session(c echo.Context) (*sessions.Session, error) {
	return m.store.Get(c.Request(), m.name)
}

func (m *Manager) save(c echo.Context, s *sessions.Session) error {
	return s.Save(c.Request(), c.Response())
}

// SignIn binds the user id to the session.
func (m *Manager) SignIn(c echo.Context, userID primitive.ObjectID) error {
	sess, err := m.session(c)
	if err != nil {
		return err
	}
	sess.Values[userIDKey] = userID.Hex()
	return m.save(c, sess)
}

// SignOut removes the identity from the server-side session record, so
// the logout takes effect immediately for every holder of the cookie. The
// session itself survives to carry the logout flash.
func (m *Manager) SignOut(c echo.Context) error {
	sess, err := m.session(c)
	if err != nil {
		return err
	}
	delete(sess.Values, userIDKey)
	return m.save(c, sess)
}

// UserID returns the signed-in user's id, if any.
func (m *Manager) UserID(c echo.Context) (primitive.ObjectID, bool) {
	sess, err := m.session(c)
	if err != nil {
		return primitive.NilObjectID, false
	}
	hex, ok := sess.Values[userIDKey].(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// Error queues a one-shot error message for the next rendered view.
func (m *Manager) Error(c echo.Context, msg string) {
	m.addFlash(c, flashError, msg)
}

// Success queues a one-shot success message for the next rendered view.
func (m *Manager) Success(c echo.Context, msg string) {
	m.addFlash(c, flashSuccess, msg)
}

func (m *Manager) addFlash(c echo.Context, kind, msg string) {
	sess, err := m.session(c)
	if err != nil {
		return
	}
	sess.AddFlash(msg, kind)
	// Flash loss on a failed save is tolerable; the redirect still happens.
	_ = m.save(c, sess)
}

// DrainFlashes returns and clears the queued flash messages.
func (m *Manager) DrainFlashes(c echo.Context) Flashes {
	var out Flashes
	sess, err := m.session(c)
	if err != nil {
		return out
	}
	for _, f := range sess.Flashes(flashError) {
		if s, ok := f.(string); ok {
			out.Error = append(out.Error, s)
		}
	}
	for _, f := range sess.Flashes(flashSuccess) {
		if s, ok := f.(string); ok {
			out.Success = append(out.Success, s)
		}
	}
	_ = m.save(c, sess)
	return out
}
