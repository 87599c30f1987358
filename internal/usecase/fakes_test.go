package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/internal/domain/service"
	"gamecodeshop/pkg/errors"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func timePtr(t time.Time) *time.Time { return &t }

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[string]*entity.Order
	listErr    error
	confirmErr map[string]error
	malformed  []repository.MalformedDocument
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]*entity.Order{}, confirmErr: map[string]error{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบคำสั่งซื้อ", nil)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListAwaitingConfirmation(context.Context) ([]*entity.Order, []repository.MalformedDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, nil, r.listErr
	}
	var out []*entity.Order
	for _, o := range r.orders {
		if !o.BuyerConfirmed && o.PaymentStatus == entity.PaymentStatusCompleted {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, r.malformed, nil
}

func (r *fakeOrderRepo) ConfirmReceipt(_ context.Context, orderID string, at time.Time, auto bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.confirmErr[orderID]; err != nil {
		return false, err
	}
	o, ok := r.orders[orderID]
	if !ok {
		return false, errors.NotFound("ไม่พบคำสั่งซื้อ", nil)
	}
	if o.BuyerConfirmed {
		return false, nil
	}
	o.BuyerConfirmed = true
	o.BuyerConfirmedAt = timePtr(at)
	o.AutoConfirmed = auto
	o.Status = entity.OrderStatusCompleted
	o.CompletedAt = timePtr(at)
	return true, nil
}

func (r *fakeOrderRepo) get(id string) *entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

type fakeDisputeRepo struct {
	mu        sync.Mutex
	disputes  map[string]*entity.Dispute
	orders    *fakeOrderRepo
	activeErr error
}

func newFakeDisputeRepo(orders *fakeOrderRepo, disputes ...*entity.Dispute) *fakeDisputeRepo {
	r := &fakeDisputeRepo{disputes: map[string]*entity.Dispute{}, orders: orders}
	for _, d := range disputes {
		r.disputes[d.ID] = d
	}
	return r
}

func (r *fakeDisputeRepo) GetByID(_ context.Context, id string) (*entity.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.disputes[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบรายงานปัญหา", nil)
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDisputeRepo) FindActiveByOrderID(_ context.Context, orderID string) (*entity.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	for _, d := range r.disputes {
		if d.OrderID == orderID && d.Status.IsActive() {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDisputeRepo) filter(keep func(*entity.Dispute) bool, limit, offset int) ([]*entity.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Dispute
	for _, d := range r.disputes {
		if keep(d) {
			cp := *d
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Dispute{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeDisputeRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*entity.Dispute, int64, error) {
	return r.filter(func(d *entity.Dispute) bool { return d.UserID == userID }, limit, offset)
}

func (r *fakeDisputeRepo) ListBySellerID(_ context.Context, sellerID string, limit, offset int) ([]*entity.Dispute, int64, error) {
	return r.filter(func(d *entity.Dispute) bool { return d.SellerID == sellerID }, limit, offset)
}

func (r *fakeDisputeRepo) List(_ context.Context, status entity.DisputeStatus, limit, offset int) ([]*entity.Dispute, int64, error) {
	return r.filter(func(d *entity.Dispute) bool { return status == "" || d.Status == status }, limit, offset)
}

func (r *fakeDisputeRepo) CreateWithOrder(_ context.Context, dispute *entity.Dispute, update entity.OrderDisputeUpdate) error {
	if err := entity.ValidateDocument(dispute); err != nil {
		return errors.BadRequest("invalid dispute", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.disputes {
		if d.OrderID == dispute.OrderID && d.Status.IsActive() {
			return errors.Conflict("คำสั่งซื้อนี้มีการรายงานปัญหาอยู่แล้ว", nil)
		}
	}
	cp := *dispute
	r.disputes[dispute.ID] = &cp
	r.applyOrder(dispute.OrderID, update)
	return nil
}

func (r *fakeDisputeRepo) UpdateWithOrder(_ context.Context, dispute *entity.Dispute, update entity.OrderDisputeUpdate) error {
	if err := entity.ValidateDocument(dispute); err != nil {
		return errors.BadRequest("invalid dispute", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *dispute
	r.disputes[dispute.ID] = &cp
	r.applyOrder(dispute.OrderID, update)
	return nil
}

func (r *fakeDisputeRepo) applyOrder(orderID string, update entity.OrderDisputeUpdate) {
	if r.orders == nil {
		return
	}
	r.orders.mu.Lock()
	defer r.orders.mu.Unlock()
	if o, ok := r.orders.orders[orderID]; ok {
		update.Apply(o)
	}
}

func (r *fakeDisputeRepo) get(id string) *entity.Dispute {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disputes[id]
}

type fakeShopRepo struct {
	mu    sync.Mutex
	shops map[string]*entity.Shop
}

func newFakeShopRepo(shops ...*entity.Shop) *fakeShopRepo {
	r := &fakeShopRepo{shops: map[string]*entity.Shop{}}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func copyShop(s *entity.Shop) *entity.Shop {
	cp := *s
	cp.BankAccounts = append([]entity.BankAccount(nil), s.BankAccounts...)
	return &cp
}

func (r *fakeShopRepo) GetByID(_ context.Context, id string) (*entity.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบร้านค้า", nil)
	}
	return copyShop(s), nil
}

func (r *fakeShopRepo) UpdateBankAccounts(_ context.Context, shopID string, mutate func(*entity.Shop) error) (*entity.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shops[shopID]
	if !ok {
		return nil, errors.NotFound("ไม่พบร้านค้า", nil)
	}
	cp := copyShop(s)
	if err := mutate(cp); err != nil {
		return nil, err
	}
	r.shops[shopID] = cp
	return copyShop(cp), nil
}

func (r *fakeShopRepo) account(shopID, accountID string) entity.BankAccount {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, _ := r.shops[shopID].FindBankAccount(accountID)
	return *acc
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบผู้ใช้", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) ListByRoles(_ context.Context, roles ...entity.Role) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		for _, role := range roles {
			if u.Role == role {
				cp := *u
				out = append(out, &cp)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeNotificationRepo struct {
	mu        sync.Mutex
	items     map[string]*entity.Notification
	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: map[string]*entity.Notification{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if err := entity.ValidateDocument(n); err != nil {
		return errors.BadRequest("invalid notification", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบการแจ้งเตือน", nil)
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) forUser(userID string) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeNotificationRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	all := r.forUser(userID)
	total := int64(len(all))
	if offset >= len(all) {
		return []*entity.Notification{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range r.forUser(userID) {
		if !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return errors.NotFound("ไม่พบการแจ้งเตือน", nil)
	}
	n.Read = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeChatRepo struct {
	mu        sync.Mutex
	chats     map[string]*entity.OrderChat
	messages  map[string][]*entity.OrderMessage
	appendErr error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[string]*entity.OrderChat{}, messages: map[string][]*entity.OrderMessage{}}
}

func (r *fakeChatRepo) AppendMessage(_ context.Context, chat *entity.OrderChat, message *entity.OrderMessage, recipient entity.ChatRole) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.chats[chat.OrderID]
	if !ok {
		cp := *chat
		existing = &cp
		r.chats[chat.OrderID] = existing
	}
	existing.LastMessage = chat.LastMessage
	existing.LastMessageAt = chat.LastMessageAt
	if recipient == entity.ChatRoleSeller {
		existing.SellerUnread++
	} else {
		existing.BuyerUnread++
	}
	cp := *message
	r.messages[message.OrderID] = append(r.messages[message.OrderID], &cp)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, orderID string) ([]*entity.OrderMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.OrderMessage(nil), r.messages[orderID]...), nil
}

func (r *fakeChatRepo) ResetUnread(_ context.Context, orderID string, role entity.ChatRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[orderID]
	if !ok {
		return nil
	}
	if role == entity.ChatRoleSeller {
		chat.SellerUnread = 0
	} else {
		chat.BuyerUnread = 0
	}
	return nil
}

func (r *fakeChatRepo) ListByParticipant(_ context.Context, userID string, role entity.ChatRole) ([]*entity.OrderChat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.OrderChat
	for _, chat := range r.chats {
		if (role == entity.ChatRoleBuyer && chat.BuyerID == userID) || (role == entity.ChatRoleSeller && chat.SellerID == userID) {
			cp := *chat
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeVerificationRepo struct {
	mu    sync.Mutex
	items map[string]*entity.BankVerification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{items: map[string]*entity.BankVerification{}}
}

func (r *fakeVerificationRepo) Create(_ context.Context, v *entity.BankVerification) error {
	if err := entity.ValidateDocument(v); err != nil {
		return errors.BadRequest("invalid verification", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.items[v.ID] = &cp
	return nil
}

func (r *fakeVerificationRepo) GetByID(_ context.Context, id string) (*entity.BankVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบรายการยืนยันบัญชี", nil)
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVerificationRepo) RecordAttempt(_ context.Context, id string, mutate func(*entity.BankVerification) error) (*entity.BankVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("ไม่พบรายการยืนยันบัญชี", nil)
	}
	cp := *v
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	r.items[id] = &cp
	out := cp
	return &out, nil
}

type pushedEvent struct {
	UserID string
	Type   string
	Data   interface{}
}

type fakePusher struct {
	mu     sync.Mutex
	events []pushedEvent
}

func (p *fakePusher) SendEvent(userID, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushedEvent{UserID: userID, Type: eventType, Data: data})
	return nil
}

type sentMail struct {
	To, Subject string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, _, to, subject, _ string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject})
	return nil
}

type fakeLock struct {
	held     bool
	acquired int
	released int
}

func (l *fakeLock) Acquire(context.Context) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *fakeLock) Release(context.Context) error {
	l.held = false
	l.released++
	return nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string, string) (bool, time.Duration) { return false, time.Minute }

type mockPayoutGateway struct {
	mock.Mock
}

func (m *mockPayoutGateway) CreateRecipient(ctx context.Context, req service.RecipientRequest) (*service.Recipient, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*service.Recipient); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPayoutGateway) GetRecipient(ctx context.Context, recipientID string) (*service.Recipient, error) {
	args := m.Called(ctx, recipientID)
	if r, _ := args.Get(0).(*service.Recipient); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPayoutGateway) CreateTransfer(ctx context.Context, recipientID string, amount int64) (*service.Transfer, error) {
	args := m.Called(ctx, recipientID, amount)
	if t, _ := args.Get(0).(*service.Transfer); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRefundGateway struct {
	mock.Mock
}

func (m *mockRefundGateway) Refund(ctx context.Context, paymentIntentID string) (*service.Refund, error) {
	args := m.Called(ctx, paymentIntentID)
	if r, _ := args.Get(0).(*service.Refund); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// world wires every use case over shared fakes.
type world struct {
	orders        *fakeOrderRepo
	disputes      *fakeDisputeRepo
	shops         *fakeShopRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	chats         *fakeChatRepo
	verifications *fakeVerificationRepo
	pusher        *fakePusher
	mailer        *fakeMailer
	notifier      *NotificationUseCase
}

func newWorld() *world {
	w := &world{
		orders: newFakeOrderRepo(),
		shops: newFakeShopRepo(&entity.Shop{
			ID:      "shop-1",
			OwnerID: "seller-1",
			Name:    "ร้านโค้ดเกม",
		}),
		users: newFakeUserRepo(
			&entity.User{ID: "buyer-1", Email: "somchai@example.com", Role: entity.RoleUser},
			&entity.User{ID: "seller-1", Email: "seller@example.com", DisplayName: "Seller", Role: entity.RoleSeller},
			&entity.User{ID: "admin-1", Email: "admin@example.com", Role: entity.RoleAdmin},
			&entity.User{ID: "root-1", Email: "root@example.com", Role: entity.RoleSuperAdmin},
		),
		notifications: newFakeNotificationRepo(),
		chats:         newFakeChatRepo(),
		verifications: newFakeVerificationRepo(),
		pusher:        &fakePusher{},
		mailer:        &fakeMailer{},
	}
	w.disputes = newFakeDisputeRepo(w.orders)
	w.notifier = NewNotificationUseCase(w.notifications, w.users, w.pusher, w.mailer, "noreply@example.com", nil)
	w.notifier.now = clock
	return w
}

func (w *world) addOrder(mutate func(o *entity.Order)) *entity.Order {
	o := &entity.Order{
		ID:            "order-1",
		UserID:        "buyer-1",
		ShopID:        "shop-1",
		Items:         []entity.OrderItem{{Name: "ROV 100 คูปอง", Quantity: 1, Price: 100}},
		TotalAmount:   100,
		Status:        entity.OrderStatusProcessing,
		PaymentStatus: entity.PaymentStatusCompleted,
		PaymentMethod: "stripe",
		GameCode:      "OLD-CODE",
		DeliveredItems: []entity.DeliveredItem{
			{ItemName: "ROV 100 คูปอง", Units: []entity.DeliveredUnit{{Code: "OLD-CODE"}}},
		},
		GameCodeDeliveredAt: timePtr(fixedNow.Add(-24 * time.Hour)),
		PaymentIntentID:     "pi_123",
		CreatedAt:           fixedNow.Add(-48 * time.Hour),
	}
	if mutate != nil {
		mutate(o)
	}
	w.orders.orders[o.ID] = o
	return o
}
