// Package domain defines the persistent records, value types, immutable
// collections, and rule evaluation primitives used by the claimant portal.
package domain

import "time"

// EntityType identifies the type of record stored in the portal domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityClaim identifies a benefits application record.
	EntityClaim EntityType = "claim"
	// EntityDocument identifies a supporting document record.
	EntityDocument EntityType = "document"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn reports an outstanding issue but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Timestamps carries the audit times maintained by persistence backends.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment is a single benefit payment issued against a claim.
type Payment struct {
	PaymentID       string   `json:"payment_id"`
	FineosAbsenceID string   `json:"fineos_absence_id"`
	PeriodStartDate string   `json:"period_start_date"`
	PeriodEndDate   string   `json:"period_end_date"`
	Amount          *float64 `json:"amount"`
	SentToBankDate  string   `json:"sent_to_bank_date"`
	PaymentMethod   string   `json:"payment_method"`
	Status          string   `json:"status"`
}

// PaymentID returns the id key of a payment.
func PaymentID(p Payment) string { return p.PaymentID }

// User is an authenticated portal account.
type User struct {
	UserID                 string   `json:"user_id"`
	EmailAddress           string   `json:"email_address"`
	ConsentedToDataSharing bool     `json:"consented_to_data_sharing"`
	Roles                  []string `json:"roles"`
}

// UserID returns the id key of a user.
func UserID(u User) string { return u.UserID }

// HasConsented reports whether the user agreed to data sharing.
func (u User) HasConsented() bool { return u.ConsentedToDataSharing }

// HasRole reports whether the user carries the named role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
