// Package partner holds clients and their per-currency balance and credit accounts.
package partner

import (
	"regexp"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Client is a buyer of sales. DiscountPercentage is applied to sale lines
// that carry neither a line discount nor a sale-level discount.
type Client struct {
	shared.BaseAggregateRoot
	Code               string
	Name               string
	Email              string
	Phone              string
	DiscountPercentage decimal.Decimal
}

// NewClient creates a client
func NewClient(code, name string, discount decimal.Decimal) (*Client, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Client code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Client code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if err := shared.ValidatePercentage("discount_percentage", discount); err != nil {
		return nil, err
	}
	return &Client{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               code,
		Name:               name,
		DiscountPercentage: discount,
	}, nil
}

// SetContact sets the contact details
func (c *Client) SetContact(email, phone string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	c.Email = email
	c.Phone = phone
	c.Touch()
	return nil
}

// Snapshot returns the values a sale needs from the client
func (c *Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		ID:                 c.ID,
		Code:               c.Code,
		Name:               c.Name,
		DiscountPercentage: c.DiscountPercentage,
	}
}

// ClientSnapshot is a resolved, read-only view of a client
type ClientSnapshot struct {
	ID                 uuid.UUID
	Code               string
	Name               string
	DiscountPercentage decimal.Decimal
}
