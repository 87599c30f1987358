package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamecodeshop/internal/domain/entity"
	"gamecodeshop/internal/usecase"
	"gamecodeshop/pkg/errors"
)

func newBankHandler() (*mockBankVerificationService, *mockBankAccountService, *BankAccountHandler) {
	verifier := new(mockBankVerificationService)
	accounts := new(mockBankAccountService)
	return verifier, accounts, NewBankAccountHandler(verifier, accounts)
}

func TestVerifyAccountPassesPathAndBody(t *testing.T) {
	verifier, _, h := newBankHandler()

	in := usecase.BankAccountInput{
		AccountType:   entity.AccountTypeBank,
		BankCode:      "kbank",
		AccountNumber: "1234567890",
		AccountName:   "สมชาย ใจดี",
	}
	verifier.On("VerifyBankAccount", mock.Anything, "seller-1", "shop-1", "acc-1", in).
		Return(&usecase.BankVerificationResult{Verified: false, Status: entity.VerificationFailed, Message: "บัญชีไม่ถูกต้อง"}, nil)

	c, rec := newContext(http.MethodPost, "/v1/shops/shop-1/bank-accounts/acc-1/verify",
		`{"account_type":"bank","bank_code":"kbank","account_number":"1234567890","account_name":"สมชาย ใจดี"}`, "seller-1")
	c.SetParamNames("shopId", "accountId")
	c.SetParamValues("shop-1", "acc-1")

	require.NoError(t, h.VerifyAccount(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result usecase.BankVerificationResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.False(t, result.Verified)
	assert.Equal(t, entity.VerificationFailed, result.Status)
}

func TestVerifyAccountGatewayError(t *testing.T) {
	verifier, _, h := newBankHandler()
	verifier.On("VerifyBankAccount", mock.Anything, "seller-1", "shop-1", "acc-1", mock.Anything).
		Return(nil, errors.Gateway("invalid bank account", nil))

	c, rec := newContext(http.MethodPost, "/v1/shops/shop-1/bank-accounts/acc-1/verify", `{"account_type":"promptpay"}`, "seller-1")
	c.SetParamNames("shopId", "accountId")
	c.SetParamValues("shop-1", "acc-1")

	require.NoError(t, h.VerifyAccount(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "invalid bank account", decode(t, rec).Error.Message)
}

func TestConfirmMicroDepositsNeedsTwoAmounts(t *testing.T) {
	verifier, _, h := newBankHandler()

	c, rec := newContext(http.MethodPost, "/v1/bank-verifications/v-1/confirm", `{"amounts":[12]}`, "seller-1")
	c.SetParamNames("id")
	c.SetParamValues("v-1")

	require.NoError(t, h.ConfirmMicroDeposits(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	verifier.AssertNotCalled(t, "ConfirmMicroDeposits", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmMicroDeposits(t *testing.T) {
	verifier, _, h := newBankHandler()
	verifier.On("ConfirmMicroDeposits", mock.Anything, "seller-1", "v-1", []int64{37, 12}).
		Return(&usecase.MicroDepositResult{Verified: true, Status: entity.VerificationVerified}, nil)

	c, rec := newContext(http.MethodPost, "/v1/bank-verifications/v-1/confirm", `{"amounts":[37,12]}`, "seller-1")
	c.SetParamNames("id")
	c.SetParamValues("v-1")

	require.NoError(t, h.ConfirmMicroDeposits(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	verifier.AssertExpectations(t)
}

func TestSetEnabledRequiresFlag(t *testing.T) {
	_, accounts, h := newBankHandler()

	c, rec := newContext(http.MethodPut, "/v1/shops/shop-1/bank-accounts/acc-1/enabled", `{}`, "seller-1")
	c.SetParamNames("shopId", "accountId")
	c.SetParamValues("shop-1", "acc-1")

	require.NoError(t, h.SetEnabled(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	accounts.AssertNotCalled(t, "SetAccountEnabled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetEnabledFalse(t *testing.T) {
	_, accounts, h := newBankHandler()
	accounts.On("SetAccountEnabled", mock.Anything, "seller-1", "shop-1", "acc-1", false).
		Return(nil, errors.BadRequest("ต้องมีบัญชีที่เปิดใช้งานอย่างน้อย 1 บัญชี", nil))

	c, rec := newContext(http.MethodPut, "/v1/shops/shop-1/bank-accounts/acc-1/enabled", `{"enabled":false}`, "seller-1")
	c.SetParamNames("shopId", "accountId")
	c.SetParamValues("shop-1", "acc-1")

	require.NoError(t, h.SetEnabled(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	accounts.AssertExpectations(t)
}

func TestSetDefault(t *testing.T) {
	_, accounts, h := newBankHandler()
	accounts.On("SetDefaultAccount", mock.Anything, "seller-1", "shop-1", "acc-2").
		Return(&entity.Shop{ID: "shop-1", BankAccounts: []entity.BankAccount{
			{ID: "acc-1"},
			{ID: "acc-2", IsDefault: true},
		}}, nil)

	c, rec := newContext(http.MethodPut, "/v1/shops/shop-1/bank-accounts/acc-2/default", "", "seller-1")
	c.SetParamNames("shopId", "accountId")
	c.SetParamValues("shop-1", "acc-2")

	require.NoError(t, h.SetDefault(c))

	var accountsOut []entity.BankAccount
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &accountsOut))
	require.Len(t, accountsOut, 2)
	assert.True(t, accountsOut[1].IsDefault)
}
