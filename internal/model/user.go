package model

import "time"

// Типы аутентификации пользователей
const (
	AuthTypeAgency    = "agency_user"
	AuthTypePublic    = "public_user"
	AuthTypeAnonymous = "anonymous_user"
)

type User struct {
	GUID              string    `db:"guid" json:"guid"`
	AuthType          string    `db:"auth_type" json:"auth_type"`
	Email             string    `db:"email" json:"email"`
	NotificationEmail *string   `db:"notification_email" json:"notification_email,omitempty"`
	FirstName         string    `db:"first_name" json:"first_name"`
	LastName          string    `db:"last_name" json:"last_name"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	IsAgencyAdmin     bool      `db:"is_agency_admin" json:"is_agency_admin"`
	AgencyEIN         *int      `db:"agency_ein" json:"agency_ein,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Name : полное имя пользователя
func (u *User) Name() string {
	return u.FirstName + " " + u.LastName
}

// PreferredEmail : notification_email, если задан, иначе основной email
func (u *User) PreferredEmail() string {
	if u.NotificationEmail != nil && *u.NotificationEmail != "" {
		return *u.NotificationEmail
	}
	return u.Email
}
