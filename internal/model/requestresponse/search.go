package requestresponse

import "foil-records-server/internal/model"

// SearchResponse : результат поиска для JSON-выдачи
type SearchResponse struct {
	Count   int                `json:"count"`
	Total   int                `json:"total"`
	Results []model.RequestHit `json:"results"`
}

// LoginRequest : тело запроса аутентификации
type LoginRequest struct {
	Email    string `json:"email" example:"staff@records.example.gov"`
	Password string `json:"password"`
}

// LoginResponse : выданный access-токен
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}
