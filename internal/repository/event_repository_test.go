package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/repository"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &config.Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func TestEventRecord_Success(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewEventRepository(database)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(
			"FOIL-2026-001",
			"admin-guid",
			model.AuthTypeAgency,
			model.EventNoteAdded,
			nil,
			[]byte(`{"content":"Records located"}`),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	event, err := repo.Record(context.Background(), database, &model.Event{
		RequestID: "FOIL-2026-001",
		UserGUID:  "admin-guid",
		AuthType:  model.AuthTypeAgency,
		Type:      model.EventNoteAdded,
		NewValue:  map[string]interface{}{"content": "Records located"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRecord_Failure(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewEventRepository(database)

	mock.ExpectQuery(`INSERT INTO events`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Record(context.Background(), database, &model.Event{
		RequestID: "FOIL-2026-001",
		Type:      model.EventNoteAdded,
	})
	assert.ErrorIs(t, err, repository.ErrEventPersistence)
}

func TestEventListByRequest(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewEventRepository(database)

	timestamp := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "user_guid", "auth_type", "type", "previous_value", "new_value", "timestamp",
	}).
		AddRow(int64(1), "FOIL-2026-001", "admin-guid", model.AuthTypeAgency,
			model.EventNoteAdded, nil, []byte(`{"content":"text"}`), timestamp).
		AddRow(int64(2), "FOIL-2026-001", "admin-guid", model.AuthTypeAgency,
			model.EventNoteEdited, []byte(`{"content":"text"}`), []byte(`{"content":"new"}`), timestamp)

	mock.ExpectQuery(`SELECT (.+) FROM events`).
		WithArgs("FOIL-2026-001").
		WillReturnRows(rows)

	events, err := repo.ListByRequest(context.Background(), database, "FOIL-2026-001")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, model.EventNoteAdded, events[0].Type)
	assert.Nil(t, events[0].PreviousValue)
	assert.Equal(t, "text", events[0].NewValue["content"])
	assert.Equal(t, "text", events[1].PreviousValue["content"])
	assert.Equal(t, "new", events[1].NewValue["content"])
}
