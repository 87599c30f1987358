package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamecodeshop/pkg/errors"
)

func TestNotificationUnreadCount(t *testing.T) {
	svc := new(mockNotificationService)
	svc.On("UnreadCount", mock.Anything, "user-1").Return(int64(7), nil)

	c, rec := newContext(http.MethodGet, "/v1/notifications/unread-count", "", "user-1")

	require.NoError(t, NewNotificationHandler(svc).UnreadCount(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":7}`, string(decode(t, rec).Data))
}

func TestNotificationMarkAllRead(t *testing.T) {
	svc := new(mockNotificationService)
	svc.On("MarkAllRead", mock.Anything, "user-1").Return(3, nil)

	c, rec := newContext(http.MethodPut, "/v1/notifications/read-all", "", "user-1")

	require.NoError(t, NewNotificationHandler(svc).MarkAllRead(c))
	assert.JSONEq(t, `{"updated":3}`, string(decode(t, rec).Data))
}

func TestNotificationMarkReadOfAnotherUser(t *testing.T) {
	svc := new(mockNotificationService)
	svc.On("MarkRead", mock.Anything, "user-1", "n-9").Return(errors.Forbidden("ไม่มีสิทธิ์เข้าถึงการแจ้งเตือนนี้", nil))

	c, rec := newContext(http.MethodPut, "/v1/notifications/n-9/read", "", "user-1")
	c.SetParamNames("id")
	c.SetParamValues("n-9")

	require.NoError(t, NewNotificationHandler(svc).MarkRead(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNotificationDeleteNotFound(t *testing.T) {
	svc := new(mockNotificationService)
	svc.On("Delete", mock.Anything, "user-1", "n-1").Return(errors.NotFound("ไม่พบการแจ้งเตือน", nil))

	c, rec := newContext(http.MethodDelete, "/v1/notifications/n-1", "", "user-1")
	c.SetParamNames("id")
	c.SetParamValues("n-1")

	require.NoError(t, NewNotificationHandler(svc).Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
