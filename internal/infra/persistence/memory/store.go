// Package memory provides an in-memory implementation of the claim store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pfmlportal/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

type (
	// Claim aliases domain.Claim for in-memory persistence operations.
	Claim = domain.Claim
	// Document aliases domain.Document.
	Document = domain.Document
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	claims    map[string]Claim
	documents map[string]Document
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Claims    map[string]Claim    `json:"claims"`
	Documents map[string]Document `json:"documents"`
}

func newMemoryState() memoryState {
	return memoryState{
		claims:    make(map[string]Claim),
		documents: make(map[string]Document),
	}
}

func (s memoryState) clone() memoryState {
	cp := memoryState{
		claims:    make(map[string]Claim, len(s.claims)),
		documents: make(map[string]Document, len(s.documents)),
	}
	for k, v := range s.claims {
		cp.claims[k] = v.Clone()
	}
	for k, v := range s.documents {
		cp.documents[k] = v
	}
	return cp
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	cp := state.clone()
	return Snapshot{Claims: cp.claims, Documents: cp.documents}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Claims {
		if v.ApplicationID == "" {
			v.ApplicationID = k
		}
		state.claims[k] = v.Clone()
	}
	for k, v := range s.Documents {
		if v.FineosDocumentID == "" {
			v.FineosDocumentID = k
		}
		state.documents[k] = v
	}
	return state
}

// Store provides an in-memory transactional store for claims and documents.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock used to stamp records.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

type transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

func sortedClaims(m map[string]Claim) []Claim {
	out := make([]Claim, 0, len(m))
	for _, c := range m {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return out
}

func sortedDocuments(m map[string]Document, keep func(Document) bool) []Document {
	out := make([]Document, 0, len(m))
	for _, d := range m {
		if keep == nil || keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FineosDocumentID < out[j].FineosDocumentID })
	return out
}

// ListClaims returns all claims within the snapshot ordered by id.
func (v transactionView) ListClaims() []Claim { return sortedClaims(v.state.claims) }

// FindClaim looks up a claim by application id.
func (v transactionView) FindClaim(id string) (Claim, bool) {
	c, ok := v.state.claims[id]
	if !ok {
		return Claim{}, false
	}
	return c.Clone(), true
}

// ListDocuments returns all documents ordered by id.
func (v transactionView) ListDocuments() []Document { return sortedDocuments(v.state.documents, nil) }

// DocumentsForClaim returns the documents attached to one application.
func (v transactionView) DocumentsForClaim(applicationID string) []Document {
	return sortedDocuments(v.state.documents, func(d Document) bool { return d.ApplicationID == applicationID })
}

// RunInTransaction executes fn against a copy of the state, evaluates the
// rules over the recorded changes and commits unless a blocking violation
// is reported.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, newTransactionView(&tx.state), tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(newTransactionView(&snapshot))
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// FindClaim exposes claim lookup within the transaction scope.
func (tx *transaction) FindClaim(id string) (Claim, bool) {
	return transactionView{state: &tx.state}.FindClaim(id)
}

// FindDocument exposes document lookup within the transaction scope.
func (tx *transaction) FindDocument(id string) (Document, bool) {
	d, ok := tx.state.documents[id]
	return d, ok
}

// CreateClaim stores a new claim. A missing application id is generated.
func (tx *transaction) CreateClaim(c Claim) (Claim, error) {
	if c.ApplicationID == "" {
		c.ApplicationID = uuid.NewString()
	}
	if _, exists := tx.state.claims[c.ApplicationID]; exists {
		return Claim{}, fmt.Errorf("claim %q already exists", c.ApplicationID)
	}
	if c.Status == "" {
		c.Status = domain.ClaimStatusStarted
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.claims[c.ApplicationID] = c.Clone()
	tx.recordChange(Change{Entity: domain.EntityClaim, Action: domain.ActionCreate, After: c.Clone()})
	return c.Clone(), nil
}

// UpdateClaim mutates a claim using the provided mutator function.
func (tx *transaction) UpdateClaim(id string, mutator func(*Claim) error) (Claim, error) {
	current, ok := tx.state.claims[id]
	if !ok {
		return Claim{}, fmt.Errorf("claim %q not found", id)
	}
	before := current.Clone()
	current = current.Clone()
	if err := mutator(&current); err != nil {
		return Claim{}, err
	}
	current.ApplicationID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.claims[id] = current.Clone()
	tx.recordChange(Change{Entity: domain.EntityClaim, Action: domain.ActionUpdate, Before: before, After: current.Clone()})
	return current.Clone(), nil
}

// DeleteClaim removes a claim that has no documents attached.
func (tx *transaction) DeleteClaim(id string) error {
	current, ok := tx.state.claims[id]
	if !ok {
		return fmt.Errorf("claim %q not found", id)
	}
	for _, d := range tx.state.documents {
		if d.ApplicationID == id {
			return fmt.Errorf("claim %q still referenced by document %q", id, d.FineosDocumentID)
		}
	}
	delete(tx.state.claims, id)
	tx.recordChange(Change{Entity: domain.EntityClaim, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateDocument attaches a document record to an existing claim.
func (tx *transaction) CreateDocument(d Document) (Document, error) {
	if _, ok := tx.state.claims[d.ApplicationID]; !ok {
		return Document{}, fmt.Errorf("claim %q not found for document", d.ApplicationID)
	}
	if d.FineosDocumentID == "" {
		d.FineosDocumentID = uuid.NewString()
	}
	if _, exists := tx.state.documents[d.FineosDocumentID]; exists {
		return Document{}, fmt.Errorf("document %q already exists", d.FineosDocumentID)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = tx.now
	}
	tx.state.documents[d.FineosDocumentID] = d
	tx.recordChange(Change{Entity: domain.EntityDocument, Action: domain.ActionCreate, After: d})
	return d, nil
}

// DeleteDocument removes a document record.
func (tx *transaction) DeleteDocument(id string) error {
	current, ok := tx.state.documents[id]
	if !ok {
		return fmt.Errorf("document %q not found", id)
	}
	delete(tx.state.documents, id)
	tx.recordChange(Change{Entity: domain.EntityDocument, Action: domain.ActionDelete, Before: current})
	return nil
}

// GetClaim retrieves a claim from committed state.
func (s *Store) GetClaim(id string) (Claim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return transactionView{state: &s.state}.FindClaim(id)
}

// ListClaims returns all committed claims ordered by id.
func (s *Store) ListClaims() []Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedClaims(s.state.claims)
}

// GetDocument retrieves a document from committed state.
func (s *Store) GetDocument(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.state.documents[id]
	return d, ok
}

// ListDocuments returns all committed documents ordered by id.
func (s *Store) ListDocuments() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedDocuments(s.state.documents, nil)
}
