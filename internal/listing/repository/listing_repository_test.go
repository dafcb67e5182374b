package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"carrental/internal/domain"
	apperrors "carrental/internal/errors"
)

func listingColumns() []string {
	return []string{"id", "name", "category", "description", "pricePerDay", "attributes", "status", "createdAt", "updatedAt"}
}

func TestListingRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewMySQLListingRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	listing := domain.Listing{
		Name:        "Toyota Corolla",
		Category:    "sedan",
		Description: "reliable",
		PricePerDay: 45,
		Attributes:  map[string]any{"color": "red"},
		Status:      domain.ListingStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Listings")).
		WithArgs(sqlmock.AnyArg(), listing.Name, listing.Category, listing.Description,
			listing.PricePerDay, []byte(`{"color":"red"}`), listing.Status, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Insert(ctx, listing)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewMySQLListingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(listingColumns()).
			AddRow("car-1", "Toyota Corolla", "sedan", "reliable", 45.0,
				[]byte(`{"color":"red"}`), "available", time.Now(), time.Now())

		mock.ExpectQuery("FROM Listings WHERE id =").
			WithArgs("car-1").
			WillReturnRows(rows)

		listing, err := repo.FindByID(ctx, "car-1")
		assert.NoError(t, err)
		assert.Equal(t, "car-1", listing.ID)
		assert.Equal(t, "red", listing.Attributes["color"])
		assert.True(t, listing.IsAvailable())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("FROM Listings WHERE id =").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(listingColumns()))

		_, err := repo.FindByID(ctx, "missing")
		_, ok := apperrors.IsNotFoundError(err)
		assert.True(t, ok)
	})

	t.Run("NullAttributes", func(t *testing.T) {
		rows := sqlmock.NewRows(listingColumns()).
			AddRow("car-2", "Honda Civic", "sedan", "", 50.0,
				nil, "available", time.Now(), time.Now())

		mock.ExpectQuery("FROM Listings WHERE id =").
			WithArgs("car-2").
			WillReturnRows(rows)

		listing, err := repo.FindByID(ctx, "car-2")
		assert.NoError(t, err)
		assert.Nil(t, listing.Attributes)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_FindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewMySQLListingRepository(db)
	ctx := context.Background()

	t.Run("Unfiltered", func(t *testing.T) {
		rows := sqlmock.NewRows(listingColumns()).
			AddRow("car-1", "Toyota Corolla", "sedan", "", 45.0, nil, "available", time.Now(), time.Now()).
			AddRow("car-2", "Ford Ranger", "pickup", "", 80.0, nil, "unavailable", time.Now(), time.Now())

		mock.ExpectQuery("FROM Listings ORDER BY").WillReturnRows(rows)

		listings, err := repo.FindAll(ctx, "")
		assert.NoError(t, err)
		assert.Len(t, listings, 2)
	})

	t.Run("FilteredByCategory", func(t *testing.T) {
		rows := sqlmock.NewRows(listingColumns()).
			AddRow("car-2", "Ford Ranger", "pickup", "", 80.0, nil, "available", time.Now(), time.Now())

		mock.ExpectQuery("FROM Listings WHERE category =").
			WithArgs("pickup").
			WillReturnRows(rows)

		listings, err := repo.FindAll(ctx, "pickup")
		assert.NoError(t, err)
		assert.Len(t, listings, 1)
		assert.Equal(t, "pickup", listings[0].Category)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewMySQLListingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE Listings SET status =").
			WithArgs("unavailable", "car-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, "car-1", "unavailable")
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE Listings SET status =").
			WithArgs("available", "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, "missing", "available")
		_, ok := apperrors.IsNotFoundError(err)
		assert.True(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_UpdateStatusIf(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewMySQLListingRepository(db)
	ctx := context.Background()

	t.Run("Applied", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE Listings SET status =").
			WithArgs("unavailable", "car-1", "available").
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Begin()
		assert.NoError(t, err)

		applied, err := repo.UpdateStatusIf(ctx, tx, "car-1", "available", "unavailable")
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("PreconditionLost", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE Listings SET status =").
			WithArgs("unavailable", "car-1", "available").
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		assert.NoError(t, err)

		applied, err := repo.UpdateStatusIf(ctx, tx, "car-1", "available", "unavailable")
		assert.NoError(t, err)
		assert.False(t, applied)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_FindOrphanedUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewMySQLListingRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id"}).AddRow("car-3").AddRow("car-7")

	mock.ExpectQuery("FROM Listings l").WillReturnRows(rows)

	ids, err := repo.FindOrphanedUnavailable(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"car-3", "car-7"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
