package middleware

import (
	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly lets admins and superadmins through. It must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return response.Error(c, errors.Unauthorized("กรุณาเข้าสู่ระบบ", nil))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return response.Error(c, errors.Forbidden("ต้องเป็นผู้ดูแลระบบเท่านั้น", nil))
			}
			return response.Error(c, err)
		}

		if !user.IsAdmin() {
			return response.Error(c, errors.Forbidden("ต้องเป็นผู้ดูแลระบบเท่านั้น", nil))
		}

		return next(c)
	}
}
