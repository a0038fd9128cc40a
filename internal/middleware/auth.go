package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// CtxOwner - ключ контекста gin с ИД владельца
const CtxOwner = "ownerID"

// Claims тип для указания OwnerID
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string
}

// Auth - настройки cookie-аутентификации
type Auth struct {
	secret     []byte
	tokenTTL   time.Duration
	cookieName string
}

func NewAuth(secret string, tokenTTL time.Duration, cookieName string) *Auth {
	return &Auth{
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		cookieName: cookieName,
	}
}

// BuildToken генерирует токен новому пользователю
func (a *Auth) BuildToken(ownerID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
		},
		OwnerID: ownerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	stringToken, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.New("error signing token")
	}
	return stringToken, nil
}

// ParseOwnerID получает ИД владельца из токена
func (a *Auth) ParseOwnerID(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return a.secret, nil
		})
	if err != nil {
		return "", errors.New("error parsing token")
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	return claims.OwnerID, nil
}

// Middleware аутентифицирует запрос по cookie. Первый визит получает новый
// uuid владельца и подписанный токен; испорченный токен отклоняется, чтобы
// вызов не продолжился под чужой личностью.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(a.cookieName); err == nil {
			ownerID, err := a.ParseOwnerID(cookie)
			if err != nil || ownerID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"ok":    false,
					"error": "invalid auth token, clear cookies and retry",
				})
				return
			}
			c.Set(CtxOwner, ownerID)
			c.Next()
			return
		}

		ownerID := uuid.NewString()
		token, err := a.BuildToken(ownerID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"ok":    false,
				"error": "could not issue auth token",
			})
			return
		}

		c.SetCookie(a.cookieName, token, int(a.tokenTTL.Seconds()), "/", "", false, true)
		c.Set(CtxOwner, ownerID)
		c.Next()
	}
}

// OwnerID извлекает ИД владельца, положенный middleware
func OwnerID(c *gin.Context) string {
	ownerID, ok := c.Get(CtxOwner)
	if !ok {
		return ""
	}
	id, ok := ownerID.(string)
	if !ok {
		return ""
	}
	return id
}
