package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

// memRecords is an in-process actorRecords.
type memRecords struct {
	mu   sync.Mutex
	recs map[string]actorRecord
	ttls map[string]time.Duration
}

func newMemRecords() *memRecords {
	return &memRecords{recs: map[string]actorRecord{}, ttls: map[string]time.Duration{}}
}

func (m *memRecords) put(_ context.Context, id string, rec actorRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[id] = rec
	m.ttls[id] = ttl
	return nil
}

func (m *memRecords) get(_ context.Context, id string) (actorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return actorRecord{}, redis.Nil
	}
	return rec, nil
}

func (m *memRecords) del(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

func (m *memRecords) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

func newActorStore(recs actorRecords) *ActorSessionStore {
	return newActorSessionStore(recs,
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
		false,
	)
}

// carry copies the cookies set on w onto a fresh request.
func carry(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/stock-items", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestActorSessionStore_SignInThenAuthenticate(t *testing.T) {
	recs := newMemRecords()
	store := newActorStore(recs)
	actorID := uuid.New()

	w := httptest.NewRecorder()
	if err := store.SignIn(w, httptest.NewRequest(http.MethodPost, "/login", nil), actorID); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if recs.len() != 1 {
		t.Fatalf("expected one stored session, got %d", recs.len())
	}
	for _, ttl := range recs.ttls {
		if ttl != ShiftLength {
			t.Errorf("ttl = %v, want %v", ttl, ShiftLength)
		}
	}

	var captured uuid.NullUUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = Actor(r.Context())
	})
	RequireAuth(store, newTestLogger())(next).ServeHTTP(httptest.NewRecorder(), carry(w))

	if !captured.Valid || captured.UUID != actorID {
		t.Fatalf("expected actor %v, got %v", actorID, captured)
	}
}

func TestActorSessionStore_SignOutRevokes(t *testing.T) {
	recs := newMemRecords()
	store := newActorStore(recs)

	w := httptest.NewRecorder()
	if err := store.SignIn(w, httptest.NewRequest(http.MethodPost, "/login", nil), uuid.New()); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	signedIn := carry(w)

	if err := store.SignOut(httptest.NewRecorder(), signedIn); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if recs.len() != 0 {
		t.Fatalf("expected session record deleted, %d left", recs.len())
	}

	// The old cookie still decodes but no longer maps to an actor.
	session, err := store.New(carry(w), SessionName)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !session.IsNew {
		t.Error("revoked session should come back as new")
	}
	if _, ok := session.Values[SessionActorIDKey]; ok {
		t.Error("revoked session should carry no actor")
	}
}

func TestActorSessionStore_TamperedCookieIsAnonymous(t *testing.T) {
	store := newActorStore(newMemRecords())
	r := httptest.NewRequest(http.MethodGet, "/stock-items", nil)
	r.AddCookie(&http.Cookie{Name: SessionName, Value: "forged"})

	session, err := store.New(r, SessionName)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !session.IsNew || len(session.Values) != 0 {
		t.Fatalf("expected fresh anonymous session, got %+v", session.Values)
	}
}

func TestActorSessionStore_SaveRequiresActor(t *testing.T) {
	tests := map[string]any{
		"missing":    nil,
		"not uuid":   "front-desk",
		"nil uuid":   uuid.Nil,
		"wrong type": 42,
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			recs := newMemRecords()
			store := newActorStore(recs)
			r := httptest.NewRequest(http.MethodPost, "/login", nil)
			session := sessions.NewSession(store, SessionName)
			opts := *store.options
			session.Options = &opts
			if value != nil {
				session.Values[SessionActorIDKey] = value
			}

			err := store.Save(r, httptest.NewRecorder(), session)
			if !errors.Is(err, ErrNoActor) {
				t.Fatalf("expected ErrNoActor, got %v", err)
			}
			if recs.len() != 0 {
				t.Fatal("nothing should be stored for a session without an actor")
			}
		})
	}
}
