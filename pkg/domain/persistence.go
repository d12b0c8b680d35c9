package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateClaim(Claim) (Claim, error)
	UpdateClaim(id string, mutator func(*Claim) error) (Claim, error)
	DeleteClaim(id string) error
	CreateDocument(Document) (Document, error)
	DeleteDocument(id string) error
	FindClaim(id string) (Claim, bool)
	FindDocument(id string) (Document, bool)
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	ListClaims() []Claim
	FindClaim(id string) (Claim, bool)
	ListDocuments() []Document
	DocumentsForClaim(applicationID string) []Document
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetClaim(id string) (Claim, bool)
	ListClaims() []Claim
	GetDocument(id string) (Document, bool)
	ListDocuments() []Document
	RulesEngine() *RulesEngine
}
