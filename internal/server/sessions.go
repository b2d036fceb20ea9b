package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"millex/internal/cart"
)

const sessionCookie = "session_id"

// Session is the per-visitor state: one cart, nothing shared between
// visitors. The store mutex guards only the session map; the cart itself is
// guarded by mu, because one browser can have several requests in flight on
// the same cookie and Cart is not safe for concurrent use.
type Session struct {
	ID       string
	Cart     *cart.Cart
	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes cart access for this session. Handlers hold it across
// every read or write of Cart.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}, ttl: ttl}
}

// Acquire returns the session for the request cookie, creating both the
// session and the cookie when absent.
func (s *SessionStore) Acquire(c *gin.Context) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	id, err := c.Cookie(sessionCookie)
	if err == nil {
		if sess, ok := s.sessions[id]; ok {
			sess.lastSeen = time.Now()
			return sess
		}
	}

	sess := &Session{ID: uuid.NewString(), Cart: cart.New(), lastSeen: time.Now()}
	s.sessions[sess.ID] = sess
	c.SetCookie(sessionCookie, sess.ID, int(s.ttl.Seconds()), "/", "", false, true)
	return sess
}

func (s *SessionStore) pruneLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
