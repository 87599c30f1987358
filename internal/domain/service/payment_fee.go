package service

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentMethodPromptPay  PaymentMethod = "promptpay"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodStripe     PaymentMethod = "stripe"
)

var platformFeeRate = decimal.NewFromFloat(0.05)

// PaymentBreakdown is what the buyer pays and what the seller receives.
// SellerReceives + PlatformFee always equals BaseAmount.
type PaymentBreakdown struct {
	Method         PaymentMethod `json:"method"`
	BaseAmount     float64       `json:"base_amount"`
	Surcharge      float64       `json:"surcharge"`
	TotalAmount    float64       `json:"total_amount"`
	PlatformFee    float64       `json:"platform_fee"`
	SellerReceives float64       `json:"seller_receives"`
}

// CalculatePlatformFee returns 5% of amount rounded to whole baht.
func CalculatePlatformFee(amount float64) float64 {
	return platformFee(decimal.NewFromFloat(amount)).InexactFloat64()
}

func platformFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(platformFeeRate).Round(0)
}

// CalculateFinalPaymentAmount carries no surcharge for any method; the
// platform fee is taken from the seller's share.
func CalculateFinalPaymentAmount(baseAmount float64, method PaymentMethod) PaymentBreakdown {
	base := decimal.NewFromFloat(baseAmount)
	fee := platformFee(base)

	return PaymentBreakdown{
		Method:         method,
		BaseAmount:     baseAmount,
		Surcharge:      0,
		TotalAmount:    baseAmount,
		PlatformFee:    fee.InexactFloat64(),
		SellerReceives: base.Sub(fee).InexactFloat64(),
	}
}
