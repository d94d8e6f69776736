package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"foil-records-server/config"
	"foil-records-server/internal/model/requestresponse"
	"foil-records-server/internal/ports"
	"foil-records-server/internal/security"
	"foil-records-server/internal/util"
)

type AuthenticationHandler struct {
	userRepository ports.UserRepository
	jwtService     *security.JWTService
}

func NewAuthenticationHandler(userRepository ports.UserRepository, jwtService *security.JWTService) *AuthenticationHandler {
	return &AuthenticationHandler{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// Login : POST /api/auth, выдаёт access-токен по email и паролю
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		util.HandleError(w, "email и password обязательны", http.StatusBadRequest)
		return
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	user, err := h.userRepository.FindByEmail(ctx, db, body.Email)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "неверный email или пароль", http.StatusUnauthorized)
		return
	}

	if security.CheckPassword(user.PasswordHash, body.Password) == false {
		util.HandleError(w, "неверный email или пароль", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(user)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.LoginResponse{AccessToken: accessToken})
}
