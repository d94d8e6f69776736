package security

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"foil-records-server/config"
	"foil-records-server/internal/model"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserGUID      string `json:"user_guid"`
	AuthType      string `json:"auth_type"`
	IsAgencyAdmin bool   `json:"is_agency_admin,omitempty"`
	jwt.RegisteredClaims
}

// Actor : субъект действия для журнала аудита
func (c *Claims) Actor() model.Actor {
	return model.Actor{UserGUID: c.UserGUID, AuthType: c.AuthType, IsAgencyAdmin: c.IsAgencyAdmin}
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

// GenerateAccessToken : подписывает access-токен для пользователя
func (service *JWTService) GenerateAccessToken(user *model.User) (string, error) {
	timeDuration, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга TTL токена: %w", err)
	}

	claims := Claims{
		UserGUID:      user.GUID,
		AuthType:      user.AuthType,
		IsAgencyAdmin: user.IsAgencyAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "foil-records-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return accessToken, nil
}

func (service *JWTService) ValidateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, fmt.Errorf("невалидный токен: %w", err)
	}

	return claims, nil
}

// HashPassword : bcrypt-хэш пароля
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(hash), nil
}

// CheckPassword : сверяет пароль с bcrypt-хэшем
func CheckPassword(passwordHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// JWTMiddleware : обязательная аутентификация; admin-токен из конфигурации
// даёт служебный доступ администратора агентства
func JWTMiddleware(secretKey []byte, jwtService *JWTService, adminToken string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims, err := claimsFromRequest(request, secretKey, jwtService, adminToken)
			if err != nil {
				log.Printf("невалидный токен: %v", err)
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
			next.ServeHTTP(writer, req)
		})
	}
}

// OptionalJWTMiddleware : аутентификация по возможности; анонимные
// запросы проходят дальше без claims (поиск доступен всем ролям)
func OptionalJWTMiddleware(secretKey []byte, jwtService *JWTService, adminToken string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get("Authorization") == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := claimsFromRequest(request, secretKey, jwtService, adminToken)
			if err != nil {
				log.Printf("невалидный токен: %v", err)
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
			next.ServeHTTP(writer, req)
		})
	}
}

func claimsFromRequest(request *http.Request, secretKey []byte, jwtService *JWTService, adminToken string) (*Claims, error) {
	authorizationHeader := request.Header.Get("Authorization")
	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return nil, fmt.Errorf("отсутствует Bearer токен")
	}

	token := strings.TrimPrefix(authorizationHeader, "Bearer ")

	if adminToken != "" && token == adminToken {
		return &Claims{
			UserGUID:      "admin",
			AuthType:      model.AuthTypeAgency,
			IsAgencyAdmin: true,
		}, nil
	}

	return jwtService.ValidateJWT(token, secretKey)
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return claims, nil
}
