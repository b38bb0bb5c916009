package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ailinks.dev/internal/domain"
	"ailinks.dev/internal/model"
)

// Claims 包含标准声明以及用户身份字段
type Claims struct {
	jwt.RegisteredClaims
	UserID uint           `json:"userId"`
	Email  string         `json:"email"`
	Role   model.UserRole `json:"role"`
}

// TokenManager issues and validates signed bearer tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	validity time.Duration
}

func NewTokenManager(secret, issuer string, validity time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		validity: validity,
	}
}

// Issue 为用户签发一个带 jti 的 HS256 token
func (m *TokenManager) Issue(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse 解析并校验 token。
// 格式错误与签名无效/过期是不同的错误类别，边界层据此映射 422 或 401。
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrUnauthorized
		}
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
