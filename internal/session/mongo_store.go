package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a gorilla/sessions Store that keeps session data server
// side in a Mongo collection. The cookie carries only a signed opaque
// session id, so logout invalidates a session immediately by deleting the
// record regardless of what the client still holds.
type MongoStore struct {
	collection *mongo.Collection
	codecs     []securecookie.Codec
	opts       *sessions.Options
}

type sessionDoc struct {
	ID       string    `bson:"_id"`
	Data     string    `bson:"data"`
	Modified time.Time `bson:"modified"`
}

// NewMongoStore creates a MongoStore writing to the "sessions" collection.
func NewMongoStore(db *mongo.Database, secret []byte) *MongoStore {
	return &MongoStore{
		collection: db.Collection("sessions"),
		codecs:     securecookie.CodecsFromPairs(secret),
		opts: &sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns a cached session from the request registry.
func (s *MongoStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie, or returns a
// fresh one when the cookie is absent, invalid, or points at a deleted
// record.
func (s *MongoStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.opts
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, cookie.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	var doc sessionDoc
	err = s.collection.FindOne(r.Context(), bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, doc.Data, &session.Values, s.codecs...); err != nil {
		return session, nil
	}
	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save persists the session record and writes the id cookie. MaxAge < 0
// deletes the record and expires the cookie.
func (s *MongoStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if _, err := s.collection.DeleteOne(r.Context(), bson.M{"_id": session.ID}); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	data, err := securecookie.EncodeMulti(session.Name(), session.Values, s.codecs...)
	if err != nil {
		return err
	}
	doc := sessionDoc{ID: session.ID, Data: data, Modified: time.Now()}
	_, err = s.collection.ReplaceOne(r.Context(), bson.M{"_id": session.ID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// PurgeExpired deletes session records idle longer than maxIdle. Called
// opportunistically at startup.
func (s *MongoStore) PurgeExpired(ctx context.Context, maxIdle time.Duration) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"modified": bson.M{"$lt": time.Now().Add(-maxIdle)}})
	return err
}
