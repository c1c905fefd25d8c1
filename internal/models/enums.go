package models

import "strings"

// CustomerStatus is stored as text; only the three values below are accepted.
type CustomerStatus string

const (
	StatusActive        CustomerStatus = "active"
	StatusSuspendedTemp CustomerStatus = "suspended_temp"
	StatusSuspendedPerm CustomerStatus = "suspended_perm"
)

// ParseCustomerStatus maps blank to active and rejects unknown values.
func ParseCustomerStatus(s string) (CustomerStatus, bool) {
	switch st := CustomerStatus(strings.TrimSpace(s)); st {
	case "":
		return StatusActive, true
	case StatusActive, StatusSuspendedTemp, StatusSuspendedPerm:
		return st, true
	default:
		return "", false
	}
}

// PaymentMethod of a customer payment, stored as text.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// legacy values written by the first front-end
var methodAliases = map[string]PaymentMethod{
	"كاش":  MethodCash,
	"شبكة": MethodCard,
}

// ParsePaymentMethod maps blank to cash, normalizes legacy aliases and
// rejects anything else.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MethodCash, true
	}
	if m, ok := methodAliases[s]; ok {
		return m, true
	}
	switch m := PaymentMethod(strings.ToLower(s)); m {
	case MethodCash, MethodCard, MethodTransfer:
		return m, true
	}
	return "", false
}
