package enum

// ── Payment state machine (CHECK constrained in DB) ──

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// ── Payment methods (CHECK constrained in DB) ──
//
// razorpay is the gateway method: the order id is the gateway payment id
// and the order is paid at creation.

const (
	PaymentMethodPayNow   = "pay_now"
	PaymentMethodAccount  = "add_to_account"
	PaymentMethodRazorpay = "razorpay"
)

// ── Menu categories (static catalog, no DB constraint) ──

const (
	CategoryMeal   = "meal"
	CategoryChai   = "chai"
	CategorySnacks = "snacks"
)

// ValidPaymentMethod reports whether s is a known payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodPayNow, PaymentMethodAccount, PaymentMethodRazorpay:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending:
		return true
	}
	return false
}

// ValidCategory reports whether s is a known menu category.
func ValidCategory(s string) bool {
	switch s {
	case CategoryMeal, CategoryChai, CategorySnacks:
		return true
	}
	return false
}
