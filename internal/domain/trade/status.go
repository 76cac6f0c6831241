package trade

// SaleStatus is the lifecycle status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// PaymentStatus is the status shared by payments, returns and refunds
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusCompleted, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsActive reports pending or partial
func (s PaymentStatus) IsActive() bool {
	return s == PaymentStatusPending || s == PaymentStatusPartial
}

// IsTerminal reports completed or cancelled
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

// CanTransitionTo checks the pending → partial → completed progression.
// Cancelled is reachable from any non-terminal state.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusPartial || target == PaymentStatusCompleted || target == PaymentStatusCancelled
	case PaymentStatusPartial:
		return target == PaymentStatusPartial || target == PaymentStatusCompleted || target == PaymentStatusCancelled
	case PaymentStatusCompleted, PaymentStatusCancelled:
		return false
	}
	return false
}

// PaymentType is the instrument used to pay a sale
type PaymentType string

const (
	PaymentTypeCash         PaymentType = "cash"
	PaymentTypeCheck        PaymentType = "check"
	PaymentTypeBankTransfer PaymentType = "bank_transfer"
	PaymentTypeBalance      PaymentType = "balance"
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeCheck, PaymentTypeBankTransfer, PaymentTypeBalance:
		return true
	}
	return false
}
