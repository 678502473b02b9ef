package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/contracts-service/internal/domain"
)

// querier abstracts the query surface shared by pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	pool      *pgxpool.Pool
	txTimeout time.Duration
}

// NewPostgresStore returns a Postgres-backed ledger Store.
func NewPostgresStore(pool *pgxpool.Pool, txTimeout time.Duration) Store {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &postgresStore{pool: pool, txTimeout: txTimeout}
}

const profileColumns = `id, first_name, last_name, profession, balance::text, type, created_at, updated_at`

func (s *postgresStore) FindProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1`
	return scanProfile(s.pool.QueryRow(ctx, query, id))
}

func (s *postgresStore) FindContract(ctx context.Context, id int64) (*domain.Contract, error) {
	const query = `
        SELECT id, terms, status, client_id, contractor_id, created_at, updated_at
        FROM contracts WHERE id=$1`
	var c domain.Contract
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Terms, &c.Status, &c.ClientID, &c.ContractorID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &c, nil
}

func (s *postgresStore) ListActiveContracts(ctx context.Context, profileID int64) ([]domain.Contract, error) {
	const query = `
        SELECT id, terms, status, client_id, contractor_id, created_at, updated_at
        FROM contracts
        WHERE status <> 'terminated' AND (client_id=$1 OR contractor_id=$1)
        ORDER BY id`
	rows, err := s.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var c domain.Contract
		if err := rows.Scan(&c.ID, &c.Terms, &c.Status, &c.ClientID, &c.ContractorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, mapStoreError(err)
		}
		result = append(result, c)
	}
	return result, mapStoreError(rows.Err())
}

func (s *postgresStore) ListUnpaidJobs(ctx context.Context, profileID int64) ([]domain.Job, error) {
	const query = `
        SELECT j.id, j.contract_id, j.description, j.price::text, j.paid, j.payment_date, j.created_at, j.updated_at
        FROM jobs j
        JOIN contracts c ON c.id = j.contract_id
        WHERE NOT j.paid
          AND c.status <> 'terminated'
          AND (c.client_id=$1 OR c.contractor_id=$1)
        ORDER BY j.id`
	rows, err := s.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		job, err := scanJobFromRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *job)
	}
	return result, mapStoreError(rows.Err())
}

func (s *postgresStore) SumUnpaidJobPrices(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	return sumUnpaidJobPrices(ctx, s.pool, clientID)
}

// RunTransaction wraps fn in a database transaction bounded by the configured
// timeout. Lock waits past the timeout, serialization failures and deadlocks
// surface as ErrUnavailable so callers can retry.
func (s *postgresStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.pool.BeginTx(txCtx, pgx.TxOptions{})
	if err != nil {
		return mapStoreError(err)
	}
	defer tx.Rollback(txCtx) //nolint:errcheck

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(txCtx); err != nil {
		return mapStoreError(err)
	}
	return nil
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) FindJobWithContract(ctx context.Context, jobID int64) (*domain.Job, *domain.Contract, error) {
	const query = `
        SELECT j.id, j.contract_id, j.description, j.price::text, j.paid, j.payment_date, j.created_at, j.updated_at,
               c.id, c.terms, c.status, c.client_id, c.contractor_id, c.created_at, c.updated_at
        FROM jobs j
        JOIN contracts c ON c.id = j.contract_id
        WHERE j.id=$1
        FOR UPDATE OF j`
	var (
		job      domain.Job
		contract domain.Contract
		priceRaw string
	)
	err := t.tx.QueryRow(ctx, query, jobID).Scan(
		&job.ID, &job.ContractID, &job.Description, &priceRaw, &job.Paid, &job.PaymentDate, &job.CreatedAt, &job.UpdatedAt,
		&contract.ID, &contract.Terms, &contract.Status, &contract.ClientID, &contract.ContractorID, &contract.CreatedAt, &contract.UpdatedAt,
	)
	if err != nil {
		return nil, nil, mapStoreError(err)
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, nil, err
	}
	job.Price = price
	return &job, &contract, nil
}

func (t *postgresTx) LockProfile(ctx context.Context, id int64) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1 FOR UPDATE`
	return scanProfile(t.tx.QueryRow(ctx, query, id))
}

func (t *postgresTx) SumUnpaidJobPrices(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	return sumUnpaidJobPrices(ctx, t.tx, clientID)
}

func (t *postgresTx) UpdateProfileBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	const query = `UPDATE profiles SET balance=$1::numeric, updated_at=NOW() WHERE id=$2`
	cmd, err := t.tx.Exec(ctx, query, balance.String(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *postgresTx) MarkJobPaid(ctx context.Context, id int64, paidAt time.Time) error {
	const query = `UPDATE jobs SET paid=TRUE, payment_date=$1, updated_at=NOW() WHERE id=$2 AND NOT paid`
	cmd, err := t.tx.Exec(ctx, query, paidAt, id)
	if err != nil {
		return mapStoreError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exposure excludes jobs under terminated contracts.
func sumUnpaidJobPrices(ctx context.Context, q querier, clientID int64) (decimal.Decimal, error) {
	const query = `
        SELECT COALESCE(SUM(j.price), 0)::text
        FROM jobs j
        JOIN contracts c ON c.id = j.contract_id
        WHERE NOT j.paid
          AND c.status <> 'terminated'
          AND c.client_id=$1`
	var raw string
	if err := q.QueryRow(ctx, query, clientID).Scan(&raw); err != nil {
		return decimal.Zero, mapStoreError(err)
	}
	return decimal.NewFromString(raw)
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p          domain.Profile
		balanceRaw string
	)
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Profession, &balanceRaw, &p.Type, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapStoreError(err)
	}
	balance, err := decimal.NewFromString(balanceRaw)
	if err != nil {
		return nil, err
	}
	p.Balance = balance
	return &p, nil
}

func scanJobFromRows(rows pgx.Rows) (*domain.Job, error) {
	var (
		job      domain.Job
		priceRaw string
	)
	if err := rows.Scan(&job.ID, &job.ContractID, &job.Description, &priceRaw, &job.Paid, &job.PaymentDate, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, mapStoreError(err)
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, err
	}
	job.Price = price
	return &job, nil
}

// Postgres error codes that make an operation safe to retry.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return ErrUnavailable
		}
	}
	return err
}
