package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
)

// TokenVerifier is the part of the Firebase auth client the API needs.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthMiddleware struct {
	authClient TokenVerifier
}

func NewAuthMiddleware(authClient TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("กรุณาเข้าสู่ระบบ", nil))
		}

		idToken, ok := BearerToken(authHeader)
		if !ok {
			return response.Error(c, errors.Unauthorized("รูปแบบ Authorization ไม่ถูกต้อง", nil))
		}

		token, err := m.authClient.VerifyIDToken(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("โทเค็นไม่ถูกต้องหรือหมดอายุ", err))
		}

		c.Set("uid", token.UID)
		return next(c)
	}
}

func (m *AuthMiddleware) GetUIDFromToken(ctx context.Context, token string) (string, error) {
	firebaseToken, err := m.authClient.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return firebaseToken.UID, nil
}
