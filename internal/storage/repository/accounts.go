package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aceresearch/registration-portal/internal/models"
)

// CreateAccount saves a new account and returns its UID.
func (q *Queries) CreateAccount(ctx context.Context, acc models.Account) (string, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var uid string
	query := `INSERT INTO accounts (username, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := q.db.QueryRowContext(ctx, query,
		acc.Username, acc.Email, acc.PasswordHash, acc.Role).Scan(&uid); err != nil {
		return "", wrapWriteErr(op, err)
	}
	return uid, nil
}

// GetAccountByEmail returns the account registered under the given email.
func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, role, created_at
			  FROM accounts
			  WHERE email = $1`
	return q.scanAccount(q.db.QueryRowContext(ctx, query, email), op)
}

// GetAccountByUID returns the account with the given UID.
func (q *Queries) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	const op = "storage.GetAccountByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, role, created_at
			  FROM accounts
			  WHERE uid = $1`
	return q.scanAccount(q.db.QueryRowContext(ctx, query, uid), op)
}

func (q *Queries) scanAccount(row *sql.Row, op string) (*models.Account, error) {
	a := &models.Account{}
	if err := row.Scan(&a.UID, &a.Username, &a.Email, &a.PasswordHash,
		&a.Role, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListAccounts returns all accounts for the admin dashboard.
func (q *Queries) ListAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	const op = "storage.ListAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, role
			  FROM accounts
			  ORDER BY created_at`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.AccountSummary
	for rows.Next() {
		var a models.AccountSummary
		if err = rows.Scan(&a.UID, &a.Username, &a.Email, &a.Role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAccountCredentials updates the username and, when newHash is not
// empty, the password hash of the account with the given email.
func (q *Queries) UpdateAccountCredentials(ctx context.Context, email, username, newHash string) error {
	const op = "storage.UpdateAccountCredentials"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET username = $1,
			      password_hash = CASE WHEN $2 <> '' THEN $2 ELSE password_hash END
			  WHERE email = $3`
	res, err := q.db.ExecContext(ctx, query, username, newHash, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteAccountsByEmail removes every account registered under the email
// and returns the number of deleted rows.
func (q *Queries) DeleteAccountsByEmail(ctx context.Context, email string) (int64, error) {
	const op = "storage.DeleteAccountsByEmail"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE email = $1`, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
