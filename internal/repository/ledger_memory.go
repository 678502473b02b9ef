package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/contracts-service/internal/domain"
)

// MemoryStore is an in-memory ledger Store used by tests and local
// development. Transactions take a single store-wide lock, which trivially
// satisfies the serializable-isolation contract of Store.
type MemoryStore struct {
	mu        sync.Mutex
	profiles  map[int64]domain.Profile
	contracts map[int64]domain.Contract
	jobs      map[int64]domain.Job
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:  make(map[int64]domain.Profile),
		contracts: make(map[int64]domain.Contract),
		jobs:      make(map[int64]domain.Job),
	}
}

// PutProfile seeds or replaces a profile.
func (s *MemoryStore) PutProfile(p domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

// PutContract seeds or replaces a contract.
func (s *MemoryStore) PutContract(c domain.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
}

// PutJob seeds or replaces a job.
func (s *MemoryStore) PutJob(j domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
}

func (s *MemoryStore) FindProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindContract(ctx context.Context, id int64) (*domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListActiveContracts(ctx context.Context, profileID int64) ([]domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Contract
	for _, c := range s.contracts {
		if c.IsTerminated() {
			continue
		}
		if c.ClientID == profileID || c.ContractorID == profileID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) ListUnpaidJobs(ctx context.Context, profileID int64) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Job
	for _, j := range s.jobs {
		if j.Paid {
			continue
		}
		c, ok := s.contracts[j.ContractID]
		if !ok || c.IsTerminated() {
			continue
		}
		if c.ClientID == profileID || c.ContractorID == profileID {
			result = append(result, j)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) SumUnpaidJobPrices(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumUnpaidLocked(clientID), nil
}

func (s *MemoryStore) sumUnpaidLocked(clientID int64) decimal.Decimal {
	total := decimal.Zero
	for _, j := range s.jobs {
		if j.Paid {
			continue
		}
		c, ok := s.contracts[j.ContractID]
		if !ok || c.IsTerminated() || c.ClientID != clientID {
			continue
		}
		total = total.Add(j.Price)
	}
	return total
}

// RunTransaction serializes all units of work behind the store mutex. Writes
// are staged and applied only when fn returns nil.
func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:    s,
		balances: make(map[int64]decimal.Decimal),
		paidJobs: make(map[int64]time.Time),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commitLocked()
	return nil
}

type memoryTx struct {
	store    *MemoryStore
	balances map[int64]decimal.Decimal
	paidJobs map[int64]time.Time
}

func (t *memoryTx) FindJobWithContract(ctx context.Context, jobID int64) (*domain.Job, *domain.Contract, error) {
	j, ok := t.store.jobs[jobID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if paidAt, staged := t.paidJobs[jobID]; staged {
		j.Paid = true
		j.PaymentDate = &paidAt
	}
	c, ok := t.store.contracts[j.ContractID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return &j, &c, nil
}

func (t *memoryTx) LockProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	p, ok := t.store.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if balance, staged := t.balances[id]; staged {
		p.Balance = balance
	}
	return &p, nil
}

func (t *memoryTx) SumUnpaidJobPrices(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	return t.store.sumUnpaidLocked(clientID), nil
}

func (t *memoryTx) UpdateProfileBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	if _, ok := t.store.profiles[id]; !ok {
		return ErrNotFound
	}
	t.balances[id] = balance
	return nil
}

func (t *memoryTx) MarkJobPaid(ctx context.Context, id int64, paidAt time.Time) error {
	job, ok := t.store.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Paid {
		return ErrNotFound
	}
	t.paidJobs[id] = paidAt
	return nil
}

func (t *memoryTx) commitLocked() {
	now := time.Now()
	for id, balance := range t.balances {
		p := t.store.profiles[id]
		p.Balance = balance
		p.UpdatedAt = now
		t.store.profiles[id] = p
	}
	for id, paidAt := range t.paidJobs {
		j := t.store.jobs[id]
		j.Paid = true
		paid := paidAt
		j.PaymentDate = &paid
		j.UpdatedAt = now
		t.store.jobs[id] = j
	}
}
