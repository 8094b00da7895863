// Package session holds the per-caller ephemeral state of the counter:
// at most one settlement batch waiting to be downloaded as a report.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"pedidos-mostrador/models"
)

// Session is the state of one caller
type Session struct {
	ID string

	mu    sync.Mutex
	batch *models.SettlementBatch
}

// SetBatch stores batch, replacing any batch not yet consumed
func (s *Session) SetBatch(batch *models.SettlementBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = batch
}

// Batch returns the stored batch or models.ErrMissingBatch
func (s *Session) Batch() (*models.SettlementBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil {
		return nil, models.ErrMissingBatch
	}
	return s.batch, nil
}

// ConsumeBatch clears the slot if it still holds the batch identified by token.
// A newer batch stored in the meantime is left untouched.
func (s *Session) ConsumeBatch(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch == nil || s.batch.Token != token {
		return false
	}
	s.batch = nil
	return true
}

// Store keeps sessions in memory, evicting the least recently used and the expired ones
type Store struct {
	cache *expirable.LRU[string, *Session]
}

// NewStore creates a Store holding up to maxEntries sessions for ttl each
func NewStore(maxEntries int, ttl time.Duration) *Store {
	return &Store{cache: expirable.NewLRU[string, *Session](maxEntries, nil, ttl)}
}

// Get returns the session with id, if it is still alive
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return s.cache.Get(id)
}

// Create starts a new session with a random id
func (s *Store) Create() *Session {
	sess := &Session{ID: uuid.NewString()}
	s.cache.Add(sess.ID, sess)
	return sess
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.cache.Len()
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying sess
func WithContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session attached to ctx
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok && sess != nil
}
