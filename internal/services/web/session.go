package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/gymmanager/internal/client/session"
	"github.com/louisbranch/gymmanager/internal/platform/id"
)

const sessionCookieName = "gym_session"

// defaultSessionTTL bounds how long an idle visitor session is kept.
const defaultSessionTTL = 12 * time.Hour

// visitor holds one browser's session controller and its pending notices.
type visitor struct {
	controller *session.Controller
	inbox      *session.Inbox
	lastSeen   time.Time
}

// visitorStore is a thread-safe in-memory store of visitor sessions.
type visitorStore struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	ttl      time.Duration
	now      func() time.Time
}

// newVisitorStore creates an empty store that expires visitors idle for ttl.
func newVisitorStore(ttl time.Duration) *visitorStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &visitorStore{
		visitors: make(map[string]*visitor),
		ttl:      ttl,
		now:      time.Now,
	}
}

// create stores a new visitor and returns its ID. Expired visitors are
// dropped on the way.
func (s *visitorStore) create(v *visitor) (string, error) {
	visitorID, err := id.NewID()
	if err != nil {
		return "", err
	}
	now := s.now()
	v.lastSeen = now
	s.mu.Lock()
	for key, existing := range s.visitors {
		if now.Sub(existing.lastSeen) > s.ttl {
			delete(s.visitors, key)
		}
	}
	s.visitors[visitorID] = v
	s.mu.Unlock()
	return visitorID, nil
}

// get returns a visitor by ID, or nil if missing or expired.
func (s *visitorStore) get(visitorID string) *visitor {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil
	}
	if now.Sub(v.lastSeen) > s.ttl {
		delete(s.visitors, visitorID)
		return nil
	}
	v.lastSeen = now
	return v
}

// len returns the number of stored visitors.
func (s *visitorStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visitors)
}

// setSessionCookie writes the session cookie to the response.
func setSessionCookie(w http.ResponseWriter, visitorID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// visitorFromRequest reads the session cookie and looks up the visitor.
func visitorFromRequest(r *http.Request, store *visitorStore) *visitor {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return store.get(cookie.Value)
}
