package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/internal/domain/service"
	"gamecodeshop/internal/infrastructure/metrics"
	"gamecodeshop/internal/infrastructure/ratelimit"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
)

type SellerAction string

const (
	SellerActionRefund  SellerAction = "refund"
	SellerActionNewCode SellerAction = "new_code"
	SellerActionReject  SellerAction = "reject"
)

type RefundOutcome string

const (
	RefundNotAttempted  RefundOutcome = ""
	RefundCompleted     RefundOutcome = "completed"
	RefundNeedsFollowUp RefundOutcome = "needs_follow_up"
)

type CreateDisputeInput struct {
	OrderID     string             `json:"order_id" validate:"required"`
	Type        entity.DisputeType `json:"type" validate:"required,oneof=not_received code_not_working code_already_used wrong_item other"`
	Subject     string             `json:"subject" validate:"required,max=200"`
	Description string             `json:"description" validate:"max=5000"`
	Evidence    []string           `json:"evidence" validate:"max=10,dive,url"`
}

type AdminResolveInput struct {
	Resolution entity.DisputeResolution `json:"resolution" validate:"required,oneof=refund resend_code dismiss"`
	Response   string                   `json:"response" validate:"max=5000"`
}

type SellerResolveInput struct {
	Action         SellerAction           `json:"action" validate:"required,oneof=refund new_code reject"`
	Response       string                 `json:"response" validate:"max=5000"`
	NewCode        string                 `json:"new_code"`
	DeliveredItems []entity.DeliveredItem `json:"delivered_items" validate:"dive"`
}

// SellerResolution reports what a seller resolution did. A refund that the
// gateway rejected still resolves the dispute but needs an admin.
type SellerResolution struct {
	Dispute        *entity.Dispute `json:"dispute"`
	RefundOutcome  RefundOutcome   `json:"refund_outcome,omitempty"`
	FollowUpReason string          `json:"follow_up_reason,omitempty"`
}

type DisputeUseCase struct {
	disputeRepo repository.DisputeRepository
	orderRepo   repository.OrderRepository
	shopRepo    repository.ShopRepository
	userRepo    repository.UserRepository
	notifier    *NotificationUseCase
	refunds     service.RefundGateway
	limiter     ActionLimiter
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewDisputeUseCase(
	disputeRepo repository.DisputeRepository,
	orderRepo repository.OrderRepository,
	shopRepo repository.ShopRepository,
	userRepo repository.UserRepository,
	notifier *NotificationUseCase,
	refunds service.RefundGateway,
	limiter ActionLimiter,
	m *metrics.Metrics,
) *DisputeUseCase {
	return &DisputeUseCase{
		disputeRepo: disputeRepo,
		orderRepo:   orderRepo,
		shopRepo:    shopRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		refunds:     refunds,
		limiter:     limiter,
		metrics:     m,
		now:         time.Now,
	}
}

// CreateDispute opens a report on a buyer's order.
func (uc *DisputeUseCase) CreateDispute(ctx context.Context, userID string, in CreateDisputeInput) (*entity.Dispute, error) {
	if uc.limiter != nil {
		if ok, _ := uc.limiter.Allow(userID, ratelimit.ActionCreateDispute); !ok {
			return nil, errors.TooManyRequests("คุณรายงานปัญหาบ่อยเกินไป กรุณาลองใหม่ภายหลัง")
		}
	}
	if strings.TrimSpace(in.Subject) == "" {
		return nil, errors.BadRequest("กรุณาระบุหัวข้อปัญหา", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, errors.Forbidden("คุณไม่มีสิทธิ์รายงานปัญหาคำสั่งซื้อนี้", nil)
	}
	if order.BuyerConfirmed {
		return nil, errors.BadRequest("คุณยืนยันรับสินค้าแล้ว ไม่สามารถรายงานปัญหาได้", nil)
	}
	if !order.IsDelivered() && in.Type != entity.DisputeTypeNotReceived {
		return nil, errors.BadRequest("ยังไม่ได้รับโค้ดเกม ไม่สามารถรายงานปัญหาประเภทนี้ได้", nil)
	}

	active, err := uc.disputeRepo.FindActiveByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errors.Conflict("คำสั่งซื้อนี้มีการรายงานปัญหาอยู่แล้ว", nil)
	}

	sellerID := order.SellerID
	if sellerID == "" {
		shop, err := uc.shopRepo.GetByID(ctx, order.ShopID)
		if err != nil {
			return nil, err
		}
		sellerID = shop.OwnerID
	}

	now := uc.now()
	evidence := in.Evidence
	if evidence == nil {
		evidence = []string{}
	}
	dispute := &entity.Dispute{
		ID:          uuid.New().String(),
		OrderID:     order.ID,
		UserID:      userID,
		ShopID:      order.ShopID,
		SellerID:    sellerID,
		Type:        in.Type,
		Subject:     strings.TrimSpace(in.Subject),
		Description: strings.TrimSpace(in.Description),
		Evidence:    evidence,
		Status:      entity.DisputeStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.disputeRepo.CreateWithOrder(ctx, dispute, entity.OrderDisputeUpdate{
		HasDispute:    true,
		DisputeID:     dispute.ID,
		DisputeStatus: entity.DisputeStatusPending,
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.IncDispute("created")
	logger.Info("Dispute %s created for order %s", dispute.ID, order.ID)

	if _, err := uc.notifier.Notify(ctx, sellerID, NotificationInput{
		Type:    entity.NotificationDisputeCreated,
		Title:   "มีการรายงานปัญหาคำสั่งซื้อ",
		Message: fmt.Sprintf("ผู้ซื้อรายงานปัญหา: %s", dispute.Subject),
		Link:    "/seller/disputes/" + dispute.ID,
	}); err != nil {
		logger.LogOrderError(order.ID, "notify seller of dispute", err)
	}
	if err := uc.notifier.NotifyAdmins(ctx, NotificationInput{
		Type:    entity.NotificationDisputeCreated,
		Title:   "มีรายงานปัญหาใหม่",
		Message: fmt.Sprintf("คำสั่งซื้อ %s: %s", order.ID, dispute.Subject),
		Link:    "/admin/disputes/" + dispute.ID,
	}); err != nil {
		logger.LogOrderError(order.ID, "notify admins of dispute", err)
	}

	return dispute, nil
}

func (uc *DisputeUseCase) requireAdmin(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return errors.Forbidden("เฉพาะผู้ดูแลระบบเท่านั้น", err)
		}
		return err
	}
	if !user.IsAdmin() {
		return errors.Forbidden("เฉพาะผู้ดูแลระบบเท่านั้น", nil)
	}
	return nil
}

func (uc *DisputeUseCase) activeDispute(ctx context.Context, disputeID string) (*entity.Dispute, error) {
	dispute, err := uc.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !dispute.Status.IsActive() {
		return nil, errors.BadRequest("รายงานปัญหานี้ได้รับการแก้ไขแล้ว", nil)
	}
	return dispute, nil
}

// MarkInvestigating moves a pending dispute under admin review.
func (uc *DisputeUseCase) MarkInvestigating(ctx context.Context, adminID, disputeID string) (*entity.Dispute, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	dispute, err := uc.activeDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status == entity.DisputeStatusInvestigating {
		return dispute, nil
	}

	dispute.Status = entity.DisputeStatusInvestigating
	dispute.UpdatedAt = uc.now()
	err = uc.disputeRepo.UpdateWithOrder(ctx, dispute, entity.OrderDisputeUpdate{
		HasDispute:    true,
		DisputeID:     dispute.ID,
		DisputeStatus: entity.DisputeStatusInvestigating,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.notifier.NotifyMany(ctx, []string{dispute.UserID, dispute.SellerID}, NotificationInput{
		Type:    entity.NotificationDisputeUpdated,
		Title:   "ผู้ดูแลระบบกำลังตรวจสอบรายงานปัญหา",
		Message: dispute.Subject,
		Link:    "/disputes/" + dispute.ID,
	}); err != nil {
		logger.LogOrderError(dispute.OrderID, "notify investigating", err)
	}

	return dispute, nil
}

// ResolveByAdmin closes a dispute and clears the order's dispute flag.
func (uc *DisputeUseCase) ResolveByAdmin(ctx context.Context, adminID, disputeID string, in AdminResolveInput) (*entity.Dispute, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	switch in.Resolution {
	case entity.ResolutionRefund, entity.ResolutionResendCode, entity.ResolutionDismiss:
	default:
		return nil, errors.BadRequest("รูปแบบการแก้ไขไม่ถูกต้อง", nil)
	}

	dispute, err := uc.activeDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	dispute.Status = entity.DisputeStatusResolved
	dispute.Resolution = in.Resolution
	dispute.AdminResponse = strings.TrimSpace(in.Response)
	dispute.ResolvedBy = adminID
	dispute.ResolvedAt = &now
	dispute.UpdatedAt = now

	err = uc.disputeRepo.UpdateWithOrder(ctx, dispute, entity.OrderDisputeUpdate{
		HasDispute:        false,
		DisputeID:         dispute.ID,
		DisputeStatus:     entity.DisputeStatusResolved,
		DisputeResolution: in.Resolution,
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.IncDispute("resolved_by_admin")

	if err := uc.notifier.NotifyMany(ctx, []string{dispute.UserID, dispute.SellerID}, NotificationInput{
		Type:    entity.NotificationDisputeResolved,
		Title:   "รายงานปัญหาได้รับการแก้ไขแล้ว",
		Message: resolutionMessage(in.Resolution, dispute.AdminResponse),
		Link:    "/disputes/" + dispute.ID,
	}); err != nil {
		logger.LogOrderError(dispute.OrderID, "notify admin resolution", err)
	}

	return dispute, nil
}

// ResolveBySeller lets the shop owner settle a dispute themselves. The order
// keeps hasDispute so the history stays visible to the buyer.
func (uc *DisputeUseCase) ResolveBySeller(ctx context.Context, sellerID, disputeID string, in SellerResolveInput) (*SellerResolution, error) {
	dispute, err := uc.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.SellerID != sellerID {
		return nil, errors.Forbidden("คุณไม่มีสิทธิ์จัดการรายงานปัญหานี้", nil)
	}
	if !dispute.Status.IsActive() {
		return nil, errors.BadRequest("รายงานปัญหานี้ได้รับการแก้ไขแล้ว", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, dispute.OrderID)
	if err != nil {
		return nil, err
	}

	result := &SellerResolution{Dispute: dispute}
	response := strings.TrimSpace(in.Response)
	update := entity.OrderDisputeUpdate{
		HasDispute:    true,
		DisputeID:     dispute.ID,
		DisputeStatus: entity.DisputeStatusResolved,
	}

	var title string
	switch in.Action {
	case SellerActionRefund:
		dispute.Resolution = entity.ResolutionRefund
		title = "ผู้ขายคืนเงินให้คุณแล้ว"
		if err := uc.refund(ctx, order); err != nil {
			logger.LogOrderError(order.ID, "seller refund", err)
			result.RefundOutcome = RefundNeedsFollowUp
			result.FollowUpReason = err.Error()
			dispute.RefundFailed = true
			response += fmt.Sprintf("\n\n[หมายเหตุ: การคืนเงินอัตโนมัติล้มเหลว (%s) ผู้ดูแลระบบจะดำเนินการต่อ]", err.Error())
			title = "ผู้ขายยอมรับการคืนเงิน กำลังดำเนินการ"
			uc.metrics.IncDispute("refund_failed")
		} else {
			result.RefundOutcome = RefundCompleted
		}

	case SellerActionNewCode:
		code := strings.TrimSpace(in.NewCode)
		if code == "" && len(in.DeliveredItems) == 0 {
			return nil, errors.BadRequest("กรุณาระบุโค้ดใหม่", nil)
		}
		dispute.Resolution = entity.ResolutionResendCode
		title = "ผู้ขายส่งโค้ดใหม่ให้คุณแล้ว"
		if len(in.DeliveredItems) > 0 {
			update.DeliveredItems = entity.MergeDeliveredItems(order.DeliveredItems, in.DeliveredItems)
		}
		update.GameCode = code
		response += "\n\n" + newCodeSummary(code, in.DeliveredItems)

	case SellerActionReject:
		dispute.Resolution = entity.ResolutionDismiss
		title = "ผู้ขายปฏิเสธรายงานปัญหา"

	default:
		return nil, errors.BadRequest("การดำเนินการไม่ถูกต้อง", nil)
	}

	now := uc.now()
	dispute.Status = entity.DisputeStatusResolved
	dispute.SellerResponse = strings.TrimSpace(response)
	dispute.ResolvedBy = sellerID
	dispute.ResolvedAt = &now
	dispute.UpdatedAt = now
	update.DisputeResolution = dispute.Resolution

	if err := uc.disputeRepo.UpdateWithOrder(ctx, dispute, update); err != nil {
		return nil, err
	}
	uc.metrics.IncDispute("resolved_by_seller")

	if _, err := uc.notifier.Notify(ctx, dispute.UserID, NotificationInput{
		Type:    entity.NotificationDisputeResolved,
		Title:   title,
		Message: dispute.Subject,
		Link:    "/orders/" + dispute.OrderID,
	}); err != nil {
		logger.LogOrderError(dispute.OrderID, "notify buyer of seller resolution", err)
	}
	if result.RefundOutcome == RefundNeedsFollowUp {
		if err := uc.notifier.NotifyAdmins(ctx, NotificationInput{
			Type:    entity.NotificationDisputeUpdated,
			Title:   "การคืนเงินอัตโนมัติล้มเหลว",
			Message: fmt.Sprintf("คำสั่งซื้อ %s: %s", dispute.OrderID, result.FollowUpReason),
			Link:    "/admin/disputes/" + dispute.ID,
		}); err != nil {
			logger.LogOrderError(dispute.OrderID, "notify admins of failed refund", err)
		}
	}

	return result, nil
}

func (uc *DisputeUseCase) refund(ctx context.Context, order *entity.Order) error {
	if uc.refunds == nil {
		return fmt.Errorf("refund gateway is not configured")
	}
	_, err := uc.refunds.Refund(ctx, order.PaymentIntentID)
	return err
}

// GetDispute returns a dispute to its buyer, its seller or an admin.
func (uc *DisputeUseCase) GetDispute(ctx context.Context, userID, disputeID string) (*entity.Dispute, error) {
	dispute, err := uc.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.UserID == userID || dispute.SellerID == userID {
		return dispute, nil
	}
	if err := uc.requireAdmin(ctx, userID); err != nil {
		return nil, errors.Forbidden("คุณไม่มีสิทธิ์ดูรายงานปัญหานี้", nil)
	}
	return dispute, nil
}

func (uc *DisputeUseCase) ListBuyerDisputes(ctx context.Context, userID string, page, pageSize int) ([]*entity.Dispute, int64, error) {
	limit, offset := pageWindow(page, pageSize)
	return uc.disputeRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *DisputeUseCase) ListSellerDisputes(ctx context.Context, sellerID string, page, pageSize int) ([]*entity.Dispute, int64, error) {
	limit, offset := pageWindow(page, pageSize)
	return uc.disputeRepo.ListBySellerID(ctx, sellerID, limit, offset)
}

func (uc *DisputeUseCase) ListDisputes(ctx context.Context, adminID string, status entity.DisputeStatus, page, pageSize int) ([]*entity.Dispute, int64, error) {
	if err := uc.requireAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}
	limit, offset := pageWindow(page, pageSize)
	return uc.disputeRepo.List(ctx, status, limit, offset)
}

func pageWindow(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}

func resolutionMessage(resolution entity.DisputeResolution, response string) string {
	var msg string
	switch resolution {
	case entity.ResolutionRefund:
		msg = "ผลการตัดสิน: คืนเงิน"
	case entity.ResolutionResendCode:
		msg = "ผลการตัดสิน: ส่งโค้ดใหม่"
	default:
		msg = "ผลการตัดสิน: ยกคำร้อง"
	}
	if response != "" {
		msg += "\n" + response
	}
	return msg
}

// newCodeSummary lists the replacement codes appended to the seller's reply.
func newCodeSummary(code string, items []entity.DeliveredItem) string {
	var b strings.Builder
	b.WriteString("โค้ดใหม่:")
	if code != "" {
		b.WriteString("\n- ")
		b.WriteString(code)
	}
	for _, item := range items {
		parts := make([]string, 0, len(item.Units))
		for _, unit := range item.Units {
			switch {
			case unit.Code != "":
				parts = append(parts, unit.Code)
			case unit.Username != "":
				parts = append(parts, unit.Username+" / "+unit.Password)
			}
		}
		fmt.Fprintf(&b, "\n- %s: %s", item.ItemName, strings.Join(parts, ", "))
	}
	return b.String()
}
