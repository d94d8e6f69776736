package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"foil-records-server/config"
	"foil-records-server/internal/model"
	"foil-records-server/internal/util"
)

type EventRepository struct {
	*config.Database
}

func NewEventRepository(database *config.Database) *EventRepository {
	return &EventRepository{database}
}

// Record : добавляет одну неизменяемую запись аудита. Временная метка
// назначается здесь. Ретраев нет: ошибка записи возвращается как
// ErrEventPersistence и должна откатить объемлющую транзакцию,
// чтобы аудит не разошёлся с состоянием сущностей.
func (r *EventRepository) Record(ctx context.Context, exec sqlx.ExtContext, event *model.Event) (*model.Event, error) {
	event.Timestamp = time.Now().UTC()

	previousValue, err := marshalSnapshot(event.PreviousValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventPersistence, err)
	}
	newValue, err := marshalSnapshot(event.NewValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventPersistence, err)
	}

	query := `
		INSERT INTO events (request_id, user_guid, auth_type, type, previous_value, new_value, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err = sqlx.GetContext(ctx, exec, &event.ID, query,
		event.RequestID,
		event.UserGUID,
		event.AuthType,
		event.Type,
		previousValue,
		newValue,
		event.Timestamp)

	if err != nil {
		util.LogError("[EventRepo] не удалось записать событие аудита", err)
		return nil, fmt.Errorf("%w: %v", ErrEventPersistence, err)
	}

	return event, nil
}

// ListByRequest : события аудита запроса в порядке записи
func (r *EventRepository) ListByRequest(ctx context.Context, exec sqlx.ExtContext, requestID string) ([]model.Event, error) {
	query := `
		SELECT id, request_id, user_guid, auth_type, type, previous_value, new_value, timestamp
		FROM events
		WHERE request_id = $1
		ORDER BY id ASC
	`

	rows, err := exec.QueryxContext(ctx, query, requestID)
	if err != nil {
		return nil, util.LogError("[EventRepo] не удалось получить события", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var event model.Event
		var previousValue, newValue []byte
		if err := rows.Scan(&event.ID, &event.RequestID, &event.UserGUID, &event.AuthType,
			&event.Type, &previousValue, &newValue, &event.Timestamp); err != nil {
			return nil, util.LogError("[EventRepo] ошибка чтения события", err)
		}
		if len(previousValue) > 0 {
			if err := json.Unmarshal(previousValue, &event.PreviousValue); err != nil {
				return nil, util.LogError("[EventRepo] ошибка десериализации previous_value", err)
			}
		}
		if len(newValue) > 0 {
			if err := json.Unmarshal(newValue, &event.NewValue); err != nil {
				return nil, util.LogError("[EventRepo] ошибка десериализации new_value", err)
			}
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func marshalSnapshot(snapshot map[string]interface{}) ([]byte, error) {
	if snapshot == nil {
		return nil, nil
	}
	return json.Marshal(snapshot)
}
