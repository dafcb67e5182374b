package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"carrental/internal/domain"
	"carrental/internal/errors"
)

type MySQLListingRepository struct {
	db *sql.DB
}

func NewMySQLListingRepository(db *sql.DB) *MySQLListingRepository {
	return &MySQLListingRepository{db: db}
}

func (r *MySQLListingRepository) Insert(ctx context.Context, listing domain.Listing) (string, error) {
	attrs, err := marshalAttributes(listing.Attributes)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO Listings (id, name, category, description, pricePerDay, attributes, status, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id, listing.Name, listing.Category, listing.Description, listing.PricePerDay,
		attrs, listing.Status, listing.CreatedAt, listing.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting listing: %w", err)
	}

	return id, nil
}

func (r *MySQLListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	query := listingSelect + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

// FindByIDForUpdate locks the listing row for the duration of the transaction.
func (r *MySQLListingRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Listing, error) {
	query := listingSelect + ` WHERE id = ? FOR UPDATE`
	return r.scanOne(tx.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLListingRepository) FindAll(ctx context.Context, category string) ([]domain.Listing, error) {
	query := listingSelect
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY createdAt DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listing rows: %w", err)
	}

	return listings, nil
}

func (r *MySQLListingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `UPDATE Listings SET status = ?, updatedAt = NOW() WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating listing status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}

	return nil
}

// UpdateStatusIf flips the status only when the current value matches from.
// It reports whether the update applied; zero rows affected means the
// precondition no longer held.
func (r *MySQLListingRepository) UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from string, to string) (bool, error) {
	query := `UPDATE Listings SET status = ?, updatedAt = NOW() WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating listing status conditionally: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// FindOrphanedUnavailable returns ids of listings marked unavailable that no
// confirmed order references.
func (r *MySQLListingRepository) FindOrphanedUnavailable(ctx context.Context) ([]string, error) {
	query := `
		SELECT l.id
		FROM Listings l
		LEFT JOIN Orders o ON o.carId = l.id AND o.status = 'confirmed'
		WHERE l.status = 'unavailable' AND o.id IS NULL
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orphaned listings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning orphaned listing id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orphaned listing rows: %w", err)
	}

	return ids, nil
}

const listingSelect = `
	SELECT id, name, category, description, pricePerDay, attributes, status, createdAt, updatedAt
	FROM Listings`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MySQLListingRepository) scanOne(row rowScanner, id string) (*domain.Listing, error) {
	listing, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var listing domain.Listing
	var attrs []byte

	err := row.Scan(
		&listing.ID, &listing.Name, &listing.Category, &listing.Description,
		&listing.PricePerDay, &attrs, &listing.Status,
		&listing.CreatedAt, &listing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning listing row: %w", err)
	}

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &listing.Attributes); err != nil {
			return nil, fmt.Errorf("decoding listing attributes: %w", err)
		}
	}

	return &listing, nil
}

func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("encoding attributes: %w", err)
	}
	return data, nil
}
