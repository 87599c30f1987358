package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/internal/infrastructure/metrics"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
)

const eventNotification = "notification"

type NotificationInput struct {
	Type    entity.NotificationType
	Title   string
	Message string
	Link    string
}

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	pusher           RealtimePusher
	mailer           EmailSender
	mailFrom         string
	metrics          *metrics.Metrics
	now              func() time.Time
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	pusher RealtimePusher,
	mailer EmailSender,
	mailFrom string,
	m *metrics.Metrics,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		mailer:           mailer,
		mailFrom:         mailFrom,
		metrics:          m,
		now:              time.Now,
	}
}

// Notify stores a notification for userID and pushes it to open sockets.
func (uc *NotificationUseCase) Notify(ctx context.Context, userID string, in NotificationInput) (*entity.Notification, error) {
	if userID == "" {
		return nil, errors.BadRequest("notification recipient is required", nil)
	}

	notification := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		Read:      false,
		CreatedAt: uc.now(),
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	uc.metrics.IncNotification(string(in.Type))

	if uc.pusher != nil {
		if err := uc.pusher.SendEvent(userID, eventNotification, notification); err != nil {
			logger.Warn("Failed to push notification %s to %s: %v", notification.ID, userID, err)
		}
	}

	return notification, nil
}

// NotifyMany sends the same notification to each distinct user. A failure
// for one recipient does not stop the rest.
func (uc *NotificationUseCase) NotifyMany(ctx context.Context, userIDs []string, in NotificationInput) error {
	seen := make(map[string]struct{}, len(userIDs))
	var errs error
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		if _, err := uc.Notify(ctx, userID, in); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("notify %s: %w", userID, err))
		}
	}
	return errs
}

// NotifyAdmins fans out to every admin and superadmin, and e-mails them
// when a mailer is configured.
func (uc *NotificationUseCase) NotifyAdmins(ctx context.Context, in NotificationInput) error {
	admins, err := uc.userRepo.ListByRoles(ctx, entity.RoleAdmin, entity.RoleSuperAdmin)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(admins))
	for _, admin := range admins {
		ids = append(ids, admin.ID)
	}
	errs := uc.NotifyMany(ctx, ids, in)

	if uc.mailer != nil && uc.mailFrom != "" {
		body := in.Message
		if in.Link != "" {
			body += "\n\n" + in.Link
		}
		for _, admin := range admins {
			if strings.TrimSpace(admin.Email) == "" {
				continue
			}
			if err := uc.mailer.Send(ctx, uc.mailFrom, admin.Email, in.Title, body); err != nil {
				logger.Warn("Failed to e-mail admin %s: %v", admin.ID, err)
			}
		}
	}

	return errs
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, page, pageSize int) ([]*entity.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.notificationRepo.ListByUserID(ctx, userID, pageSize, (page-1)*pageSize)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

func (uc *NotificationUseCase) owned(ctx context.Context, userID, notificationID string) (*entity.Notification, error) {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, errors.Forbidden("คุณไม่มีสิทธิ์เข้าถึงการแจ้งเตือนนี้", nil)
	}
	return notification, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.owned(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if notification.Read {
		return nil
	}
	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUseCase) Delete(ctx context.Context, userID, notificationID string) error {
	if _, err := uc.owned(ctx, userID, notificationID); err != nil {
		return err
	}
	return uc.notificationRepo.Delete(ctx, notificationID)
}
