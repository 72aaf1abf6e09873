package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestGroupRepositoryClaimSeat(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(`UPDATE groups SET occupied_seats = occupied_seats \+ 1, updated_at = \$2\s+WHERE id = \$1 AND occupied_seats < capacity`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ClaimSeat(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryClaimSeatFullGroup(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(`UPDATE groups SET occupied_seats = occupied_seats \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ClaimSeat(context.Background(), 1)
	require.ErrorIs(t, err, ErrNoSeatAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryReleaseSeat(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewGroupRepository(db)

	mock.ExpectExec(`UPDATE groups SET occupied_seats = occupied_seats - 1, updated_at = \$2\s+WHERE id = \$1 AND occupied_seats > 0`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReleaseSeat(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
