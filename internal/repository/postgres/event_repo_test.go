package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campusevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_CreateWithCreator(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("E101", "2025-06-10", "14:00", "CS", created).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO hostings`).
					WithArgs("E101", "U002", domain.HostingRoleCreator, created).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE users SET events_hosted`).
					WithArgs("U002").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate event id rolls back",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("E101", "2025-06-10", "14:00", "CS", created).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrDuplicateEvent,
		},
		{
			name: "unknown department rolls back",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("E101", "2025-06-10", "14:00", "CS", created).
					WillReturnError(&pq.Error{Code: "23503"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrUnknownDepartment,
		},
		{
			name: "hosting insert failure rolls back the event",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).
					WithArgs("E101", "2025-06-10", "14:00", "CS", created).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO hostings`).
					WithArgs("E101", "U002", domain.HostingRoleCreator, created).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			event := domain.NewEvent("E101", "2025-06-10", "14:00", "CS", created)
			err = repo.CreateWithCreator(ctx, event, "U002")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT event_id, date::text`).
					WithArgs("E101").
					WillReturnRows(sqlmock.NewRows([]string{"event_id", "date", "time", "department", "created_at"}).
						AddRow("E101", "2025-06-10", "14:00", "CS", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
			},
			want: &domain.Event{
				ID:         "E101",
				Date:       "2025-06-10",
				Time:       "14:00",
				Department: "CS",
				CreatedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT event_id, date::text`).
					WithArgs("E404").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			id := "E101"
			if tt.wantErr != nil {
				id = "E404"
			}
			got, err := repo.GetByID(ctx, id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func summaryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"event_id", "date", "time", "department",
		"default_fee", "default_max_capacity", "registration_count",
	})
}

func TestEventRepository_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE e\.date >= \$1::date`).
		WithArgs("2025-06-01").
		WillReturnRows(summaryRows().
			AddRow("E101", "2025-06-10", "14:00", "CS", 25.0, 30, 12).
			AddRow("E102", "2025-06-10", "16:00", "EE", 10.0, 50, 50))

	repo := NewEventRepository(db)
	events, err := repo.ListUpcoming(ctx, "2025-06-01")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "E101", events[0].EventID)
	assert.Equal(t, 30, events[0].MaxCapacity)
	assert.Equal(t, 12, events[0].RegistrationCount)
	assert.Equal(t, 50, events[1].RegistrationCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListByCreator(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE h\.user_id = \$1 AND h\.role = \$2`).
		WithArgs("U002", domain.HostingRoleCreator).
		WillReturnRows(summaryRows().
			AddRow("E101", "2025-06-10", "14:00", "CS", 25.0, 30, 12))

	repo := NewEventRepository(db)
	events, err := repo.ListByCreator(ctx, "U002")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "E101", events[0].EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetSummary_not_found(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE e\.event_id = \$1`).
		WithArgs("E404").
		WillReturnError(sql.ErrNoRows)

	repo := NewEventRepository(db)
	_, err = repo.GetSummary(ctx, "E404")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
