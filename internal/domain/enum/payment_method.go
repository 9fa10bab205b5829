package enum

import (
	"database/sql/driver"
	"fmt"
)

// PaymentMethod represents how a sale is paid. Stored as a string so
// transaction rows stay readable in SQL.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodMobile  PaymentMethod = "mobile"
	PaymentMethodVoucher PaymentMethod = "voucher"
	PaymentMethodSplit   PaymentMethod = "split"
)

// ParsePaymentMethod validates a raw method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile,
		PaymentMethodVoucher, PaymentMethodSplit:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) String() string {
	return string(m)
}

// RequiresCapture reports whether the method is settled through the
// external card terminal before completion.
func (m PaymentMethod) RequiresCapture() bool {
	return m == PaymentMethodCard || m == PaymentMethodMobile
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	}
	return nil
}
