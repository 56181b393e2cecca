// Package auth resolves the acting user of an inventory request.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Production deployments
// must use cryptographically random keys generated with:
//
//	openssl rand -base64 32
package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// ShiftLength is how long an actor session lasts.
const ShiftLength = 12 * time.Hour

const actorSessionKeyPrefix = "stockkeeper:actor-session:"

// ErrNoActor is returned when saving a session that does not name a valid actor.
var ErrNoActor = errors.New("session does not carry a valid actor_id")

// actorRecord is everything the server keeps about a session.
type actorRecord struct {
	ActorID  uuid.UUID
	IssuedAt time.Time
}

// actorRecords persists actorRecords by session ID.
type actorRecords interface {
	put(ctx context.Context, id string, rec actorRecord, ttl time.Duration) error
	get(ctx context.Context, id string) (actorRecord, error)
	del(ctx context.Context, id string) error
}

// ActorSessionStore is a sessions.Store that binds a cookie to one actor.
// The cookie carries only an encrypted session ID. The actor is kept in a
// Redis hash "stockkeeper:actor-session:<id>" that expires with the shift.
//
// Unlike a general session store it persists nothing but SessionActorIDKey;
// Save rejects a session without a valid actor.
type ActorSessionStore struct {
	records actorRecords
	codecs  []securecookie.Codec
	options *sessions.Options
	now     func() time.Time
}

// NewActorSessionStore creates a Redis-backed actor session store. client
// comes from cache.RedisClient.Client(); set secureCookie outside local dev.
func NewActorSessionStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) *ActorSessionStore {
	return newActorSessionStore(redisRecords{client: client}, authKey, encryptionKey, secureCookie)
}

func newActorSessionStore(records actorRecords, authKey, encryptionKey []byte, secureCookie bool) *ActorSessionStore {
	return &ActorSessionStore{
		records: records,
		codecs:  securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(ShiftLength / time.Second),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the request's cached session, building it on first use.
func (s *ActorSessionStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New decodes the session cookie and loads its actor. A missing, tampered or
// expired session yields a fresh anonymous one and no error.
func (s *ActorSessionStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}
	rec, err := s.records.get(r.Context(), id)
	if err != nil {
		return session, nil
	}

	session.ID = id
	session.Values[SessionActorIDKey] = rec.ActorID.String()
	session.IsNew = false
	return session, nil
}

// Save stores the session's actor and writes the cookie. MaxAge < 0 ends the
// session on both sides.
func (s *ActorSessionStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.records.del(r.Context(), session.ID); err != nil {
				return fmt.Errorf("revoke session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	actorID, err := actorOf(session)
	if err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
			"=",
		)
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.records.put(r.Context(), session.ID, actorRecord{ActorID: actorID, IssuedAt: s.now()}, ttl); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// SignIn starts a shift-long session for actorID on the response.
func (s *ActorSessionStore) SignIn(w http.ResponseWriter, r *http.Request, actorID uuid.UUID) error {
	session, err := s.Get(r, SessionName)
	if err != nil {
		return err
	}
	session.Values[SessionActorIDKey] = actorID.String()
	return session.Save(r, w)
}

// SignOut ends the request's session, if any.
func (s *ActorSessionStore) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := s.Get(r, SessionName)
	if err != nil {
		return err
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func actorOf(session *sessions.Session) (uuid.UUID, error) {
	var id uuid.UUID
	switch v := session.Values[SessionActorIDKey].(type) {
	case uuid.UUID:
		id = v
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, ErrNoActor
		}
		id = parsed
	}
	if id == uuid.Nil {
		return uuid.Nil, ErrNoActor
	}
	return id, nil
}

// redisRecords keeps one hash per session.
type redisRecords struct {
	client *redis.Client
}

func (r redisRecords) put(ctx context.Context, id string, rec actorRecord, ttl time.Duration) error {
	key := actorSessionKeyPrefix + id
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key,
		"actor_id", rec.ActorID.String(),
		"issued_at", rec.IssuedAt.Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis put session: %w", err)
	}
	return nil
}

func (r redisRecords) get(ctx context.Context, id string) (actorRecord, error) {
	vals, err := r.client.HGetAll(ctx, actorSessionKeyPrefix+id).Result()
	if err != nil {
		return actorRecord{}, fmt.Errorf("redis get session: %w", err)
	}
	if len(vals) == 0 {
		return actorRecord{}, redis.Nil
	}
	actorID, err := uuid.Parse(vals["actor_id"])
	if err != nil {
		return actorRecord{}, fmt.Errorf("session actor_id: %w", err)
	}
	issuedAt, _ := time.Parse(time.RFC3339Nano, vals["issued_at"])
	return actorRecord{ActorID: actorID, IssuedAt: issuedAt}, nil
}

func (r redisRecords) del(ctx context.Context, id string) error {
	return r.client.Del(ctx, actorSessionKeyPrefix+id).Err()
}
