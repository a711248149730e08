package order

import (
	"fmt"

	"pharmaflow/internal/pkg/errs"
)

// PaymentMethod is how the customer pays for the order. Payment processing
// itself happens outside this service; the method is recorded on the order
// for the pharmacy and the delivery agent.
type PaymentMethod int

const (
	// PaymentUnknown represents an invalid or undefined payment method.
	PaymentUnknown PaymentMethod = iota

	// CashOnDelivery is paid in cash when the order arrives.
	CashOnDelivery

	// OnlinePayment was paid upfront through an external payment provider.
	OnlinePayment
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		CashOnDelivery: "cash_on_delivery",
		OnlinePayment:  "online",
	}
}

// String returns the wire name of the payment method.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// PaymentMethodFromString parses a wire payment method name.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, str := range getPaymentMethodStrings() {
		if str == s {
			return method, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment method",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate checks that the PaymentMethod is one of the defined methods.
func (m PaymentMethod) Validate() error {
	if _, ok := getPaymentMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}
