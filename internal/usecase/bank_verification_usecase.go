package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/domain/repository"
	"gamecodeshop/internal/domain/service"
	"gamecodeshop/internal/infrastructure/metrics"
	"gamecodeshop/internal/infrastructure/ratelimit"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
)

// VerificationTransferAmount is the 1 THB transfer used to prove an account
// can receive money, in satang.
const VerificationTransferAmount int64 = 100

// ThaiBanks maps the supported Omise bank brands to display names.
var ThaiBanks = map[string]string{
	"bbl":   "ธนาคารกรุงเทพ",
	"kbank": "ธนาคารกสิกรไทย",
	"ktb":   "ธนาคารกรุงไทย",
	"ttb":   "ธนาคารทหารไทยธนชาต",
	"scb":   "ธนาคารไทยพาณิชย์",
	"bay":   "ธนาคารกรุงศรีอยุธยา",
	"kk":    "ธนาคารเกียรตินาคินภัทร",
	"cimb":  "ธนาคารซีไอเอ็มบี ไทย",
	"tisco": "ธนาคารทิสโก้",
	"uob":   "ธนาคารยูโอบี",
	"lhb":   "ธนาคารแลนด์ แอนด์ เฮ้าส์",
	"gsb":   "ธนาคารออมสิน",
	"baac":  "ธนาคารเพื่อการเกษตรและสหกรณ์การเกษตร",
	"ghb":   "ธนาคารอาคารสงเคราะห์",
}

var promptPayIDLength = map[entity.PromptPayType]int{
	entity.PromptPayPhone:      10,
	entity.PromptPayNationalID: 13,
	entity.PromptPayEWallet:    15,
}

type BankAccountInput struct {
	AccountType   entity.AccountType   `json:"account_type" validate:"required,oneof=bank promptpay"`
	BankCode      string               `json:"bank_code" validate:"required_if=AccountType bank"`
	AccountNumber string               `json:"account_number" validate:"required_if=AccountType bank,omitempty,numeric,min=10,max=15"`
	AccountName   string               `json:"account_name" validate:"required_if=AccountType bank,max=100"`
	PromptPayID   string               `json:"promptpay_id" validate:"required_if=AccountType promptpay,omitempty,numeric"`
	PromptPayType entity.PromptPayType `json:"promptpay_type" validate:"required_if=AccountType promptpay,omitempty,oneof=phone national_id ewallet"`
}

type BankVerificationResult struct {
	Verified    bool                      `json:"verified"`
	Status      entity.VerificationStatus `json:"status"`
	RecipientID string                    `json:"recipient_id,omitempty"`
	TransferID  string                    `json:"transfer_id,omitempty"`
	Message     string                    `json:"message,omitempty"`
	Error       string                    `json:"error,omitempty"`
}

// MicroDepositChallenge is returned when deposits are sent. TestAmounts is
// only filled in test mode, where no money moves.
type MicroDepositChallenge struct {
	Verification *entity.BankVerification `json:"verification"`
	TestAmounts  []int64                  `json:"test_amounts,omitempty"`
}

type MicroDepositResult struct {
	Verified          bool                      `json:"verified"`
	Status            entity.VerificationStatus `json:"status"`
	RemainingAttempts int                       `json:"remaining_attempts"`
	Message           string                    `json:"message,omitempty"`
}

type BankVerificationUseCase struct {
	shopRepo         repository.ShopRepository
	verificationRepo repository.BankVerificationRepository
	gateway          service.PayoutGateway
	keys             *service.OmiseKeyLoader
	notifier         *NotificationUseCase
	limiter          ActionLimiter
	validate         *validator.Validate
	mockMode         bool
	promptPayEnabled bool
	metrics          *metrics.Metrics
	now              func() time.Time
}

func NewBankVerificationUseCase(
	shopRepo repository.ShopRepository,
	verificationRepo repository.BankVerificationRepository,
	gateway service.PayoutGateway,
	keys *service.OmiseKeyLoader,
	notifier *NotificationUseCase,
	limiter ActionLimiter,
	mockMode bool,
	promptPayEnabled bool,
	m *metrics.Metrics,
) *BankVerificationUseCase {
	return &BankVerificationUseCase{
		shopRepo:         shopRepo,
		verificationRepo: verificationRepo,
		gateway:          gateway,
		keys:             keys,
		notifier:         notifier,
		limiter:          limiter,
		validate:         validator.New(),
		mockMode:         mockMode,
		promptPayEnabled: promptPayEnabled,
		metrics:          m,
		now:              time.Now,
	}
}

func (uc *BankVerificationUseCase) validateInput(in BankAccountInput) error {
	if err := uc.validate.Struct(in); err != nil {
		return errors.BadRequest("ข้อมูลบัญชีไม่ครบถ้วนหรือไม่ถูกต้อง", err)
	}

	switch in.AccountType {
	case entity.AccountTypeBank:
		if _, ok := ThaiBanks[strings.ToLower(in.BankCode)]; !ok {
			return errors.BadRequest("ไม่รองรับธนาคารนี้", nil)
		}
	case entity.AccountTypePromptPay:
		if !uc.promptPayEnabled {
			return errors.BadRequest("ยังไม่เปิดให้ใช้งานพร้อมเพย์", nil)
		}
		if want := promptPayIDLength[in.PromptPayType]; len(in.PromptPayID) != want {
			return errors.BadRequest(fmt.Sprintf("หมายเลขพร้อมเพย์ต้องมี %d หลัก", want), nil)
		}
	}
	return nil
}

func (uc *BankVerificationUseCase) testMode(ctx context.Context) (bool, error) {
	if uc.mockMode {
		return true, nil
	}
	if uc.keys == nil {
		return false, errors.Gateway("ระบบโอนเงินยังไม่ได้ตั้งค่า", nil)
	}
	keys, err := uc.keys.Load(ctx)
	if err != nil {
		return false, errors.Gateway("ระบบโอนเงินยังไม่ได้ตั้งค่า", err)
	}
	return keys.IsTestMode(), nil
}

func (uc *BankVerificationUseCase) ownedAccount(ctx context.Context, ownerID, shopID, accountID string) (*entity.Shop, *entity.BankAccount, error) {
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}
	if shop.OwnerID != ownerID {
		return nil, nil, errors.Forbidden("คุณไม่มีสิทธิ์จัดการบัญชีของร้านนี้", nil)
	}
	account, _ := shop.FindBankAccount(accountID)
	if account == nil {
		return nil, nil, errors.NotFound("ไม่พบบัญชีธนาคาร", nil)
	}
	return shop, account, nil
}

// applyInput copies the submitted details onto the stored account. A change
// of payee invalidates the cached Omise recipient.
func applyInput(account *entity.BankAccount, in BankAccountInput) {
	changed := account.AccountType != in.AccountType ||
		account.BankCode != strings.ToLower(in.BankCode) ||
		account.AccountNumber != in.AccountNumber ||
		account.PromptPayID != in.PromptPayID

	account.AccountType = in.AccountType
	if in.AccountType == entity.AccountTypeBank {
		account.BankCode = strings.ToLower(in.BankCode)
		account.BankName = ThaiBanks[account.BankCode]
		account.AccountNumber = in.AccountNumber
		account.AccountName = strings.TrimSpace(in.AccountName)
		account.PromptPayID = ""
		account.PromptPayType = ""
	} else {
		account.BankCode = ""
		account.BankName = "พร้อมเพย์"
		account.AccountNumber = ""
		account.PromptPayID = in.PromptPayID
		account.PromptPayType = in.PromptPayType
		if name := strings.TrimSpace(in.AccountName); name != "" {
			account.AccountName = name
		}
	}
	if changed {
		account.OmiseRecipientID = ""
		account.LastTransferID = ""
	}
}

func recipientRequest(shopID string, account *entity.BankAccount) service.RecipientRequest {
	req := service.RecipientRequest{
		Name:        account.AccountName,
		Description: "shop " + shopID + " account " + account.ID,
		AccountName: account.AccountName,
	}
	if account.AccountType == entity.AccountTypePromptPay {
		req.BankBrand = "promptpay"
		req.AccountNumber = account.PromptPayID
	} else {
		req.BankBrand = account.BankCode
		req.AccountNumber = account.AccountNumber
	}
	if req.Name == "" {
		req.Name = "shop " + shopID
	}
	return req
}

func (uc *BankVerificationUseCase) ensureRecipient(ctx context.Context, shopID string, account *entity.BankAccount) (string, error) {
	if account.OmiseRecipientID != "" {
		return account.OmiseRecipientID, nil
	}
	recipient, err := uc.gateway.CreateRecipient(ctx, recipientRequest(shopID, account))
	if err != nil {
		return "", errors.Gateway(err.Error(), err)
	}
	return recipient.ID, nil
}

// VerifyBankAccount proves an account can receive payouts by sending it a
// 1 THB test transfer.
func (uc *BankVerificationUseCase) VerifyBankAccount(ctx context.Context, ownerID, shopID, accountID string, in BankAccountInput) (*BankVerificationResult, error) {
	if err := uc.validateInput(in); err != nil {
		return nil, err
	}
	if uc.limiter != nil {
		if ok, _ := uc.limiter.Allow(ownerID, ratelimit.ActionVerifyBank); !ok {
			return nil, errors.TooManyRequests("ยืนยันบัญชีบ่อยเกินไป กรุณาลองใหม่ภายหลัง")
		}
	}

	shop, account, err := uc.ownedAccount(ctx, ownerID, shopID, accountID)
	if err != nil {
		return nil, err
	}
	testMode, err := uc.testMode(ctx)
	if err != nil {
		return nil, err
	}

	candidate := *account
	applyInput(&candidate, in)

	if testMode {
		now := uc.now()
		if err := uc.saveAccount(ctx, ownerID, shop.ID, accountID, func(_ *entity.Shop, acc *entity.BankAccount) {
			applyInput(acc, in)
			acc.VerificationStatus = entity.VerificationVerified
			acc.VerificationError = ""
			acc.VerifiedAt = &now
		}); err != nil {
			return nil, err
		}
		uc.metrics.IncVerification("test_transfer", "test_mode")
		uc.notifyVerified(ctx, shop, &candidate)
		return &BankVerificationResult{
			Verified: true,
			Status:   entity.VerificationVerified,
			Message:  "ยืนยันบัญชีสำเร็จ (โหมดทดสอบ)",
		}, nil
	}

	recipientID, err := uc.ensureRecipient(ctx, shop.ID, &candidate)
	if err != nil {
		uc.metrics.IncVerification("test_transfer", "gateway_error")
		return nil, err
	}

	transfer, err := uc.gateway.CreateTransfer(ctx, recipientID, VerificationTransferAmount)
	if err != nil {
		// keep the recipient so a retry does not create another one
		if saveErr := uc.saveAccount(ctx, ownerID, shop.ID, accountID, func(_ *entity.Shop, acc *entity.BankAccount) {
			applyInput(acc, in)
			acc.OmiseRecipientID = recipientID
		}); saveErr != nil {
			logger.Warn("Failed to store recipient %s for shop %s: %v", recipientID, shop.ID, saveErr)
		}
		uc.metrics.IncVerification("test_transfer", "gateway_error")
		return nil, errors.Gateway(err.Error(), err)
	}

	result := &BankVerificationResult{RecipientID: recipientID, TransferID: transfer.ID}
	switch transfer.State {
	case service.TransferPaid, service.TransferSent:
		result.Status = entity.VerificationVerified
		result.Verified = true
		result.Message = "ยืนยันบัญชีสำเร็จ"
	case service.TransferFailed, service.TransferReversed:
		result.Status = entity.VerificationFailed
		result.Error = transfer.FailureMessage
		if result.Error == "" {
			result.Error = "การโอนเงินทดสอบไม่สำเร็จ"
		}
		result.Message = "ยืนยันบัญชีไม่สำเร็จ กรุณาตรวจสอบข้อมูลบัญชี"
	default:
		result.Status = entity.VerificationPending
		result.Message = "กำลังรอผลการโอนเงินทดสอบ"
	}

	now := uc.now()
	if err := uc.saveAccount(ctx, ownerID, shop.ID, accountID, func(stored *entity.Shop, acc *entity.BankAccount) {
		applyInput(acc, in)
		acc.OmiseRecipientID = recipientID
		acc.LastTransferID = transfer.ID
		acc.VerificationStatus = result.Status
		acc.VerificationError = result.Error
		if result.Verified {
			acc.VerifiedAt = &now
		} else {
			withdrawAccount(stored, acc)
		}
	}); err != nil {
		return nil, err
	}

	uc.metrics.IncVerification("test_transfer", string(result.Status))
	if result.Verified {
		uc.notifyVerified(ctx, shop, &candidate)
	}
	return result, nil
}

func (uc *BankVerificationUseCase) saveAccount(ctx context.Context, ownerID, shopID, accountID string, change func(*entity.Shop, *entity.BankAccount)) error {
	_, err := uc.shopRepo.UpdateBankAccounts(ctx, shopID, func(shop *entity.Shop) error {
		if shop.OwnerID != ownerID {
			return errors.Forbidden("คุณไม่มีสิทธิ์จัดการบัญชีของร้านนี้", nil)
		}
		account, _ := shop.FindBankAccount(accountID)
		if account == nil {
			return errors.NotFound("ไม่พบบัญชีธนาคาร", nil)
		}
		change(shop, account)
		return nil
	})
	return err
}

// withdrawAccount takes an account that is no longer verified out of payout
// rotation. The default moves to the next enabled verified account.
func withdrawAccount(shop *entity.Shop, account *entity.BankAccount) {
	account.IsEnabled = false
	if !account.IsDefault {
		return
	}
	account.IsDefault = false
	for i := range shop.BankAccounts {
		other := &shop.BankAccounts[i]
		if other.ID != account.ID && other.IsEnabled && other.VerificationStatus == entity.VerificationVerified {
			other.IsDefault = true
			return
		}
	}
}

func (uc *BankVerificationUseCase) notifyVerified(ctx context.Context, shop *entity.Shop, account *entity.BankAccount) {
	if uc.notifier == nil {
		return
	}
	label := account.BankName
	if label == "" {
		label = "บัญชีรับเงิน"
	}
	if _, err := uc.notifier.Notify(ctx, shop.OwnerID, NotificationInput{
		Type:    entity.NotificationBankVerified,
		Title:   "ยืนยันบัญชีรับเงินสำเร็จ",
		Message: label + " พร้อมรับเงินแล้ว",
		Link:    "/seller/settings/bank-accounts",
	}); err != nil {
		logger.Warn("Failed to notify shop %s of verification: %v", shop.ID, err)
	}
}

// StartMicroDeposit sends two small deposits the owner must report back.
func (uc *BankVerificationUseCase) StartMicroDeposit(ctx context.Context, ownerID, shopID, accountID string) (*MicroDepositChallenge, error) {
	shop, account, err := uc.ownedAccount(ctx, ownerID, shopID, accountID)
	if err != nil {
		return nil, err
	}
	if account.VerificationStatus == entity.VerificationVerified {
		return nil, errors.BadRequest("บัญชีนี้ได้รับการยืนยันแล้ว", nil)
	}
	testMode, err := uc.testMode(ctx)
	if err != nil {
		return nil, err
	}

	amounts := []int64{rand.Int63n(99) + 1, rand.Int63n(99) + 1}
	verification := &entity.BankVerification{
		ID:          uuid.New().String(),
		ShopID:      shop.ID,
		AccountID:   account.ID,
		Amounts:     amounts,
		Attempts:    0,
		MaxAttempts: entity.MicroDepositMaxAttempts,
		Status:      entity.VerificationPending,
	}

	if !testMode {
		recipientID, err := uc.ensureRecipient(ctx, shop.ID, account)
		if err != nil {
			return nil, err
		}
		for _, amount := range amounts {
			transfer, err := uc.gateway.CreateTransfer(ctx, recipientID, amount)
			if err != nil {
				return nil, errors.Gateway(err.Error(), err)
			}
			verification.TransferIDs = append(verification.TransferIDs, transfer.ID)
		}
		account.OmiseRecipientID = recipientID
	}

	if err := uc.verificationRepo.Create(ctx, verification); err != nil {
		return nil, err
	}
	recipientID := account.OmiseRecipientID
	if err := uc.saveAccount(ctx, ownerID, shop.ID, account.ID, func(stored *entity.Shop, acc *entity.BankAccount) {
		acc.VerificationStatus = entity.VerificationPending
		acc.VerificationError = ""
		withdrawAccount(stored, acc)
		if recipientID != "" {
			acc.OmiseRecipientID = recipientID
		}
	}); err != nil {
		return nil, err
	}
	uc.metrics.IncVerification("micro_deposit", "started")

	challenge := &MicroDepositChallenge{Verification: verification}
	if testMode {
		challenge.TestAmounts = amounts
	}
	return challenge, nil
}

// ConfirmMicroDeposits checks the reported amounts. After MaxAttempts
// wrong answers the verification fails for good.
func (uc *BankVerificationUseCase) ConfirmMicroDeposits(ctx context.Context, ownerID, verificationID string, amounts []int64) (*MicroDepositResult, error) {
	if len(amounts) != 2 {
		return nil, errors.BadRequest("กรุณาระบุจำนวนเงินทั้ง 2 รายการ", nil)
	}

	verification, err := uc.verificationRepo.GetByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	shop, _, err := uc.ownedAccount(ctx, ownerID, verification.ShopID, verification.AccountID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	verification, err = uc.verificationRepo.RecordAttempt(ctx, verificationID, func(v *entity.BankVerification) error {
		switch v.Status {
		case entity.VerificationVerified:
			return errors.BadRequest("บัญชีนี้ได้รับการยืนยันแล้ว", nil)
		case entity.VerificationFailed:
			return errors.BadRequest("ยืนยันผิดเกินจำนวนครั้งที่กำหนด กรุณาเริ่มการยืนยันใหม่", nil)
		}
		if sameAmounts(v.Amounts, amounts) {
			v.Status = entity.VerificationVerified
			v.VerifiedAt = &now
			return nil
		}
		v.Attempts++
		if v.Attempts >= v.MaxAttempts {
			v.Status = entity.VerificationFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &MicroDepositResult{
		Status:            verification.Status,
		RemainingAttempts: verification.RemainingAttempts(),
	}
	switch verification.Status {
	case entity.VerificationVerified:
		if err := uc.saveAccount(ctx, ownerID, shop.ID, verification.AccountID, func(_ *entity.Shop, acc *entity.BankAccount) {
			acc.VerificationStatus = entity.VerificationVerified
			acc.VerificationError = ""
			acc.VerifiedAt = &now
		}); err != nil {
			return nil, err
		}
		uc.metrics.IncVerification("micro_deposit", "verified")
		if account, _ := shop.FindBankAccount(verification.AccountID); account != nil {
			uc.notifyVerified(ctx, shop, account)
		}
		result.Verified = true
		result.Message = "ยืนยันบัญชีสำเร็จ"
	case entity.VerificationFailed:
		if err := uc.saveAccount(ctx, ownerID, shop.ID, verification.AccountID, func(stored *entity.Shop, acc *entity.BankAccount) {
			acc.VerificationStatus = entity.VerificationFailed
			acc.VerificationError = "micro-deposit attempts exhausted"
			withdrawAccount(stored, acc)
		}); err != nil {
			return nil, err
		}
		uc.metrics.IncVerification("micro_deposit", "failed")
		result.Message = "ยืนยันผิดเกินจำนวนครั้งที่กำหนด กรุณาเริ่มการยืนยันใหม่"
	default:
		result.Message = fmt.Sprintf("จำนวนเงินไม่ถูกต้อง เหลืออีก %d ครั้ง", result.RemainingAttempts)
	}
	return result, nil
}

func sameAmounts(expected, got []int64) bool {
	if len(expected) != 2 || len(got) != 2 {
		return false
	}
	return (expected[0] == got[0] && expected[1] == got[1]) ||
		(expected[0] == got[1] && expected[1] == got[0])
}
