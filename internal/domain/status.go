package domain

// PaymentStatus is the lifecycle state reported by the payment service.
// Values outside the known set are carried verbatim.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
	PaymentUnknown   PaymentStatus = "unknown"
)

// Known reports whether s is one of the statuses the gateway understands.
func (s PaymentStatus) Known() bool {
	switch s {
	case PaymentCompleted, PaymentPending, PaymentFailed, PaymentUnknown:
		return true
	}
	return false
}

// ShipmentStatus is the lifecycle state reported by the shipping service.
type ShipmentStatus string

const (
	ShipmentProcessing ShipmentStatus = "processing"
	ShipmentShipped    ShipmentStatus = "shipped"
	ShipmentDelivered  ShipmentStatus = "delivered"
	ShipmentCancelled  ShipmentStatus = "cancelled"
	ShipmentUnknown    ShipmentStatus = "unknown"
)

func (s ShipmentStatus) Known() bool {
	switch s {
	case ShipmentProcessing, ShipmentShipped, ShipmentDelivered, ShipmentCancelled, ShipmentUnknown:
		return true
	}
	return false
}

// PaymentMethod identifies how a customer pays.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCOD          PaymentMethod = "cod"
)

func (m PaymentMethod) Known() bool {
	switch m {
	case MethodCreditCard, MethodBankTransfer, MethodCOD:
		return true
	}
	return false
}
