package model

import (
	"time"

	"foil-records-server/internal/permission"
)

// Типы связи пользователя с запросом
const (
	RequestUserTypeRequester = "requester"
	RequestUserTypeAgency    = "agency"
)

// UserRequest : связь одного пользователя с одним запросом FOIL и его
// права на этом запросе. На пару (user, request) существует не более
// одной записи. Единственная сущность модели, которая удаляется физически.
type UserRequest struct {
	UserGUID        string          `db:"user_guid" json:"user_guid"`
	AuthType        string          `db:"auth_type" json:"auth_type"`
	RequestID       string          `db:"request_id" json:"request_id"`
	RequestUserType string          `db:"request_user_type" json:"request_user_type"`
	Permissions     permission.Mask `db:"permissions" json:"permissions"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// EventSnapshot : компактный снимок для previous_value/new_value в Events
func (ur *UserRequest) EventSnapshot() map[string]interface{} {
	return map[string]interface{}{
		"user_guid":   ur.UserGUID,
		"request_id":  ur.RequestID,
		"permissions": uint64(ur.Permissions),
		"labels":      permission.Labels(ur.Permissions),
	}
}
