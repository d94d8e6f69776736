package requestresponse

import (
	"foil-records-server/internal/model"
	"foil-records-server/internal/permission"
)

// AddUserRequestRequest : добавление пользователя к запросу.
// Permissions — имена capability, например ["add_note","add_file"].
type AddUserRequestRequest struct {
	Permissions []string `json:"permissions" example:"add_note,add_file"`
}

// EditUserRequestRequest : полный целевой набор capability пользователя
type EditUserRequestRequest struct {
	Permissions []string `json:"permissions"`
}

// UserRequestView : связь пользователя с запросом для JSON-выдачи
type UserRequestView struct {
	UserGUID        string   `json:"user_guid"`
	RequestID       string   `json:"request_id"`
	RequestUserType string   `json:"request_user_type"`
	Permissions     uint64   `json:"permissions"`
	Labels          []string `json:"labels"`
}

// UserRequestViewFromModel : конвертирует model.UserRequest в UserRequestView
func UserRequestViewFromModel(userRequest *model.UserRequest) UserRequestView {
	return UserRequestView{
		UserGUID:        userRequest.UserGUID,
		RequestID:       userRequest.RequestID,
		RequestUserType: userRequest.RequestUserType,
		Permissions:     uint64(userRequest.Permissions),
		Labels:          permission.Labels(userRequest.Permissions),
	}
}
