package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/internal/infrastructure/metrics"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
)

const DefaultAutoConfirmDays = 7

type AutoConfirmResult struct {
	Success        bool     `json:"success"`
	ConfirmedCount int      `json:"confirmed_count"`
	SkippedCount   int      `json:"skipped_count"`
	Errors         []string `json:"errors,omitempty"`
}

type AutoConfirmUseCase struct {
	orderRepo   repository.OrderRepository
	disputeRepo repository.DisputeRepository
	shopRepo    repository.ShopRepository
	notifier    *NotificationUseCase
	lock        JobLock
	window      time.Duration
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewAutoConfirmUseCase(
	orderRepo repository.OrderRepository,
	disputeRepo repository.DisputeRepository,
	shopRepo repository.ShopRepository,
	notifier *NotificationUseCase,
	lock JobLock,
	days int,
	m *metrics.Metrics,
) *AutoConfirmUseCase {
	if days <= 0 {
		days = DefaultAutoConfirmDays
	}
	return &AutoConfirmUseCase{
		orderRepo:   orderRepo,
		disputeRepo: disputeRepo,
		shopRepo:    shopRepo,
		notifier:    notifier,
		lock:        lock,
		window:      time.Duration(days) * 24 * time.Hour,
		metrics:     m,
		now:         time.Now,
	}
}

// RunAutoConfirm completes every delivered, undisputed order whose code was
// handed over at least the confirmation window ago. Per-order failures are
// collected and do not stop the sweep.
func (uc *AutoConfirmUseCase) RunAutoConfirm(ctx context.Context) (*AutoConfirmResult, error) {
	if uc.lock != nil {
		acquired, err := uc.lock.Acquire(ctx)
		if err != nil {
			return nil, errors.Internal("Failed to acquire auto-confirm lock", err)
		}
		if !acquired {
			return nil, errors.Conflict("auto-confirm is already running", nil)
		}
		defer func() {
			if err := uc.lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release auto-confirm lock: %v", err)
			}
		}()
	}

	started := uc.now()
	cutoff := started.Add(-uc.window)

	orders, malformed, err := uc.orderRepo.ListAwaitingConfirmation(ctx)
	if err != nil {
		return nil, err
	}

	result := &AutoConfirmResult{Success: true}
	var errs error

	for _, doc := range malformed {
		errs = multierr.Append(errs, fmt.Errorf("order %s: %w", doc.ID, doc.Err))
		result.Errors = append(result.Errors, fmt.Sprintf("order %s: malformed document", doc.ID))
	}

	for _, order := range orders {
		confirmed, err := uc.sweepOrder(ctx, order, cutoff)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", order.ID, err))
			continue
		}
		if confirmed {
			result.ConfirmedCount++
		} else {
			result.SkippedCount++
		}
	}

	uc.metrics.ObserveSweep(uc.now().Sub(started), result.ConfirmedCount, result.SkippedCount, len(result.Errors))
	if errs != nil {
		logger.Warn("Auto-confirm finished with %d errors: %v", len(result.Errors), errs)
	}
	logger.Info("Auto-confirm sweep: %d confirmed, %d skipped", result.ConfirmedCount, result.SkippedCount)

	return result, nil
}

func (uc *AutoConfirmUseCase) sweepOrder(ctx context.Context, order *entity.Order, cutoff time.Time) (bool, error) {
	if order.BuyerConfirmed || !order.IsDelivered() {
		return false, nil
	}
	if order.GameCodeDeliveredAt.After(cutoff) {
		return false, nil
	}
	if order.HasDispute && order.DisputeStatus.IsActive() {
		return false, nil
	}

	active, err := uc.disputeRepo.FindActiveByOrderID(ctx, order.ID)
	if err != nil {
		return false, err
	}
	if active != nil {
		return false, nil
	}

	confirmed, err := uc.orderRepo.ConfirmReceipt(ctx, order.ID, uc.now(), true)
	if err != nil || !confirmed {
		return false, err
	}

	uc.notifyConfirmed(ctx, order, true)
	return true, nil
}

// ConfirmReceipt is the buyer's manual confirmation. It ends the dispute
// window the same way the sweep does.
func (uc *AutoConfirmUseCase) ConfirmReceipt(ctx context.Context, buyerID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != buyerID {
		return nil, errors.Forbidden("คุณไม่มีสิทธิ์ยืนยันคำสั่งซื้อนี้", nil)
	}
	if order.BuyerConfirmed {
		return nil, errors.BadRequest("คุณยืนยันรับสินค้าแล้ว", nil)
	}
	if !order.IsDelivered() {
		return nil, errors.BadRequest("ยังไม่ได้รับโค้ดเกม", nil)
	}
	if order.HasDispute && order.DisputeStatus.IsActive() {
		return nil, errors.BadRequest("คำสั่งซื้อนี้มีการรายงานปัญหาที่ยังไม่ได้รับการแก้ไข", nil)
	}

	now := uc.now()
	confirmed, err := uc.orderRepo.ConfirmReceipt(ctx, order.ID, now, false)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, errors.BadRequest("คุณยืนยันรับสินค้าแล้ว", nil)
	}

	order.BuyerConfirmed = true
	order.BuyerConfirmedAt = &now
	order.Status = entity.OrderStatusCompleted
	order.CompletedAt = &now
	uc.notifyConfirmed(ctx, order, false)

	return order, nil
}

func (uc *AutoConfirmUseCase) notifyConfirmed(ctx context.Context, order *entity.Order, auto bool) {
	sellerID := order.SellerID
	if shop, err := uc.shopRepo.GetByID(ctx, order.ShopID); err == nil {
		sellerID = shop.OwnerID
	} else if sellerID == "" {
		logger.LogOrderError(order.ID, "load shop for confirmation notice", err)
	}

	buyerMsg := "คำสั่งซื้อของคุณได้รับการยืนยันเรียบร้อยแล้ว"
	sellerMsg := "ผู้ซื้อยืนยันการรับสินค้าแล้ว"
	if auto {
		buyerMsg = fmt.Sprintf("คำสั่งซื้อของคุณได้รับการยืนยันอัตโนมัติหลังครบ %d วัน", int(uc.window.Hours()/24))
		sellerMsg = "คำสั่งซื้อได้รับการยืนยันอัตโนมัติแล้ว"
	}

	var errs error
	if _, err := uc.notifier.Notify(ctx, order.UserID, NotificationInput{
		Type:    entity.NotificationOrderConfirmed,
		Title:   "ยืนยันการรับสินค้า",
		Message: buyerMsg,
		Link:    "/orders/" + order.ID,
	}); err != nil {
		errs = multierr.Append(errs, err)
	}
	if sellerID != "" {
		if _, err := uc.notifier.Notify(ctx, sellerID, NotificationInput{
			Type:    entity.NotificationOrderConfirmed,
			Title:   "คำสั่งซื้อเสร็จสมบูรณ์",
			Message: sellerMsg,
			Link:    "/seller/orders/" + order.ID,
		}); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		logger.LogOrderError(order.ID, "notify confirmation", errs)
	}
}

// GetAutoConfirmRemainingDays returns the whole days left before the sweep
// would confirm the order, or nil when it never will.
func (uc *AutoConfirmUseCase) GetAutoConfirmRemainingDays(ctx context.Context, userID, orderID string) (*int, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && order.SellerID != userID {
		shop, err := uc.shopRepo.GetByID(ctx, order.ShopID)
		if err != nil || shop.OwnerID != userID {
			return nil, errors.Forbidden("คุณไม่มีสิทธิ์เข้าถึงคำสั่งซื้อนี้", nil)
		}
	}
	return RemainingAutoConfirmDays(order, uc.now(), uc.window), nil
}

func RemainingAutoConfirmDays(order *entity.Order, now time.Time, window time.Duration) *int {
	if order.BuyerConfirmed || !order.IsDelivered() {
		return nil
	}
	remaining := order.GameCodeDeliveredAt.Add(window).Sub(now)
	days := int(math.Ceil(remaining.Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}

// StartAutoConfirmJob runs the sweep on a ticker until ctx is done.
func (uc *AutoConfirmUseCase) StartAutoConfirmJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := uc.RunAutoConfirm(ctx); err != nil {
					logger.Error("Auto-confirm job error: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Auto-confirm job started (every %s)", interval)
}
