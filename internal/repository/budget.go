package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hideout/hideout/internal/model"
)

// Common errors for budget repository operations.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNameTaken   = errors.New("category name already in use")
	ErrCategoryInUse       = errors.New("category is referenced by transactions")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// CreateCategory inserts a new budget category.
func (r *Repository) CreateCategory(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Type,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCategoryNameTaken
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// ListCategories returns the user's categories ordered by type and name.
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY type, name
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory renames or retypes a category, scoped to its owner.
func (r *Repository) UpdateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	query := `
		UPDATE categories
		SET name = $3, type = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, type, created_at, updated_at
	`

	var updated model.Category
	err := r.pool.QueryRow(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Type,
	).Scan(&updated.ID, &updated.UserID, &updated.Name, &updated.Type, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &updated, nil
}

// DeleteCategory removes a category owned by the given user.
// A category referenced by any transaction cannot be deleted.
func (r *Repository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	var inUse bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = $1 AND user_id = $2)`,
		categoryID, userID,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse {
		return ErrCategoryInUse
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		// Concurrent insert can still hit the FK constraint.
		if isForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// CreateTransaction inserts a new budget transaction.
func (r *Repository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, transaction_date, category_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.Amount,
		tx.TransactionDate,
		tx.CategoryID,
		tx.Description,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// ListTransactions returns the user's transactions, most recent first.
func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]*model.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, transaction_date, category_id, description, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*model.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return transactions, nil
}

// UpdateTransaction replaces a transaction's mutable fields, scoped to
// its owner.
func (r *Repository) UpdateTransaction(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	query := `
		UPDATE transactions
		SET type = $3, amount = $4, transaction_date = $5, category_id = $6, description = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, type, amount, transaction_date, category_id, description, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.Amount,
		tx.TransactionDate,
		tx.CategoryID,
		tx.Description,
	)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return updated, nil
}

// DeleteTransaction removes a transaction owned by the given user.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, txID string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, txID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var tx model.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.Amount,
		&tx.TransactionDate,
		&tx.CategoryID,
		&tx.Description,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
