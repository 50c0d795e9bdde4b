// Package memory keeps materials, entries and audit logs in process memory.
// It honours the same transaction and locking contract as the postgres
// adapter: rows read for update stay locked until commit or rollback, and
// writes become visible only on commit.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/usecase"
)

// ErrTxClosed is returned when a finished transaction is used again.
var ErrTxClosed = errors.New("memory: transaction already closed")

// Store is the shared committed state.
type Store struct {
	mu        sync.RWMutex
	materials map[string]domain.Material
	entries   map[string]domain.LedgerEntry
	audits    []domain.AuditLog

	customers  map[string]domain.Customer
	eventTypes map[string]domain.EventType
	charges    map[string]domain.ExtraCharge

	locksMu sync.Mutex
	locks   map[string]*rowLock
}

// rowLock is a one-slot semaphore shared by the holder and any waiters. It
// is dropped from Store.locks once nobody references it.
type rowLock struct {
	ch   chan struct{}
	refs int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		materials: make(map[string]domain.Material),
		entries:   make(map[string]domain.LedgerEntry),
		audits:    make([]domain.AuditLog, 0, 64),
		locks:     make(map[string]*rowLock),

		customers:  make(map[string]domain.Customer),
		eventTypes: make(map[string]domain.EventType),
		charges:    make(map[string]domain.ExtraCharge),
	}
}

func (s *Store) acquire(ctx context.Context, key string) (*rowLock, error) {
	s.locksMu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &rowLock{ch: make(chan struct{}, 1)}
		s.locks[key] = l
	}
	l.refs++
	s.locksMu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return l, nil
	case <-ctx.Done():
		s.unref(key, l)
		return nil, ctx.Err()
	}
}

func (s *Store) releaseLock(key string, l *rowLock) {
	<-l.ch
	s.unref(key, l)
}

func (s *Store) unref(key string, l *rowLock) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}

func (s *Store) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager over store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:      m.store,
		materials:  make(map[string]domain.Material),
		entries:    make(map[string]domain.LedgerEntry),
		customers:  make(map[string]domain.Customer),
		eventTypes: make(map[string]domain.EventType),
		charges:    make(map[string]domain.ExtraCharge),
	}, nil
}

// Tx buffers writes until commit and holds row locks until it finishes.
type Tx struct {
	store *Store

	mu        sync.Mutex
	held      map[string]*rowLock
	materials map[string]domain.Material
	entries   map[string]domain.LedgerEntry
	audits    []domain.AuditLog
	done      bool

	customers  map[string]domain.Customer
	eventTypes map[string]domain.EventType
	charges    map[string]domain.ExtraCharge
}

func (t *Tx) lock(ctx context.Context, key string) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return ErrTxClosed
	}
	if _, ok := t.held[key]; ok {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	l, err := t.store.acquire(ctx, key)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		t.store.releaseLock(key, l)
		return ErrTxClosed
	}
	if t.held == nil {
		t.held = make(map[string]*rowLock)
	}
	t.held[key] = l
	return nil
}

func (t *Tx) release() {
	for key, l := range t.held {
		t.store.releaseLock(key, l)
	}
	t.held = nil
}

// Commit publishes buffered writes and releases locks.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.Lock()
	for id, m := range t.materials {
		t.store.materials[id] = m
	}
	for id, e := range t.entries {
		t.store.entries[id] = e
	}
	for id, c := range t.customers {
		t.store.customers[id] = c
	}
	for id, e := range t.eventTypes {
		t.store.eventTypes[id] = e
	}
	for id, c := range t.charges {
		t.store.charges[id] = c
	}
	t.store.audits = append(t.store.audits, t.audits...)
	t.store.mu.Unlock()

	t.done = true
	t.release()
	return nil
}

// Rollback discards buffered writes and releases locks.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxClosed
	}

	t.done = true
	t.materials = nil
	t.entries = nil
	t.audits = nil
	t.customers = nil
	t.eventTypes = nil
	t.charges = nil
	t.release()
	return nil
}

func (t *Tx) active() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxClosed
	}
	return nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errors.New("memory: foreign transaction")
	}
	return t, t.active()
}

func materialLockKey(id string) string { return "material:" + id }

func entryLockKey(id string) string { return "entry:" + id }

func customerLockKey(id string) string { return "customer:" + id }

func eventTypeLockKey(id string) string { return "event_type:" + id }

func chargeLockKey(id string) string { return "extra_charge:" + id }
