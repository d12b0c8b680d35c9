package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pfmlportal/internal/blob"
	"pfmlportal/internal/logging"
	"pfmlportal/internal/progress"
	"pfmlportal/pkg/domain"
)

var (
	// ErrInvalidTransition is returned when a claim cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid claim status transition")
	// ErrNoBlobStore is returned by document operations when no blob store is configured.
	ErrNoBlobStore = errors.New("blob store not configured")
)

// Service exposes transactional claim operations and progress tracking.
type Service struct {
	store   PersistentStore
	blobs   blob.Store
	flow    progress.Flow
	conds   progress.Conditions
	logger  *slog.Logger
	metrics MetricsRecorder
	tracer  Tracer
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger == nil {
			logger = logging.Discard()
		}
		s.logger = logger
	}
}

// WithMetricsRecorder sets the operation metrics sink.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec == nil {
			rec = noopMetricsRecorder{}
		}
		s.metrics = rec
	}
}

// WithTracer sets the operation tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer == nil {
			tracer = noopTracer{}
		}
		s.tracer = tracer
	}
}

// WithClock overrides the time source used for operation durations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBlobStore enables document uploads.
func WithBlobStore(store blob.Store) Option {
	return func(s *Service) { s.blobs = store }
}

// WithFlow replaces the embedded claim flow.
func WithFlow(flow progress.Flow) Option {
	return func(s *Service) { s.flow = flow }
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		flow:    progress.DefaultClaimFlow(),
		conds:   progress.DefaultConditions(),
		logger:  logging.Discard(),
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(NewMemoryStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Flow returns the page flow used for progress tracking.
func (s *Service) Flow() progress.Flow {
	return s.flow
}

// run wraps an operation with tracing, metrics and logging.
func (s *Service) run(ctx context.Context, op, applicationID string, fn func(context.Context) error) error {
	started := s.now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	elapsed := s.now().Sub(started)
	s.metrics.Observe(ctx, op, err == nil, elapsed)

	attrs := []any{
		slog.String("operation", op),
		slog.Duration("duration", elapsed),
	}
	if applicationID != "" {
		attrs = append(attrs, slog.String("application_id", applicationID))
	}
	if err != nil {
		s.logger.WarnContext(ctx, "operation failed", append(attrs, slog.String("error", err.Error()))...)
		return err
	}
	s.logger.DebugContext(ctx, "operation completed", attrs...)
	return nil
}

// CreateClaim persists a new claim. An empty application id is generated.
func (s *Service) CreateClaim(ctx context.Context, claim Claim) (Claim, Result, error) {
	var (
		created Claim
		res     Result
	)
	err := s.run(ctx, "create_claim", claim.ApplicationID, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateClaim(claim)
			return err
		})
		return err
	})
	return created, res.ForEntity(created.ApplicationID), err
}

// UpdateClaim mutates a claim using the provided mutator. Status changes are
// rejected; they go through SubmitClaim and CompleteClaim.
func (s *Service) UpdateClaim(ctx context.Context, id string, mutator func(*Claim) error) (Claim, Result, error) {
	var (
		updated Claim
		res     Result
	)
	err := s.run(ctx, "update_claim", id, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindClaim(id); !ok {
				return ErrNotFound{Entity: EntityClaim, ID: id}
			}
			var err error
			updated, err = tx.UpdateClaim(id, func(c *Claim) error {
				status := c.Status
				if err := mutator(c); err != nil {
					return err
				}
				if c.Status != status {
					return fmt.Errorf("%w: status changes go through submit and complete", ErrInvalidTransition)
				}
				return nil
			})
			return err
		})
		return err
	})
	return updated, res.ForEntity(id), err
}

// SubmitClaim moves a started claim to Submitted. The submission_ready rule
// blocks the commit while part one has outstanding issues.
func (s *Service) SubmitClaim(ctx context.Context, id string) (Claim, Result, error) {
	return s.transition(ctx, "submit_claim", id, domain.ClaimStatusStarted, domain.ClaimStatusSubmitted)
}

// CompleteClaim moves a submitted claim to Completed once parts two and
// three are done.
func (s *Service) CompleteClaim(ctx context.Context, id string) (Claim, Result, error) {
	return s.transition(ctx, "complete_claim", id, domain.ClaimStatusSubmitted, domain.ClaimStatusCompleted)
}

func (s *Service) transition(ctx context.Context, op, id string, from, to domain.ClaimStatus) (Claim, Result, error) {
	var (
		updated Claim
		res     Result
	)
	err := s.run(ctx, op, id, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			current, ok := tx.FindClaim(id)
			if !ok {
				return ErrNotFound{Entity: EntityClaim, ID: id}
			}
			if current.Status != from {
				return fmt.Errorf("%w: %s claim %s cannot become %s", ErrInvalidTransition, current.Status, id, to)
			}
			var err error
			updated, err = tx.UpdateClaim(id, func(c *Claim) error {
				c.Status = to
				return nil
			})
			return err
		})
		return err
	})
	return updated, res.ForEntity(id), err
}

// DeleteClaim removes a claim together with its documents and their content.
func (s *Service) DeleteClaim(ctx context.Context, id string) (Result, error) {
	var (
		res  Result
		keys []string
	)
	err := s.run(ctx, "delete_claim", id, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			if _, ok := tx.FindClaim(id); !ok {
				return ErrNotFound{Entity: EntityClaim, ID: id}
			}
			for _, doc := range tx.Snapshot().DocumentsForClaim(id) {
				if err := tx.DeleteDocument(doc.FineosDocumentID); err != nil {
					return err
				}
				if doc.BlobKey != "" {
					keys = append(keys, doc.BlobKey)
				}
			}
			return tx.DeleteClaim(id)
		})
		if err != nil {
			return err
		}
		s.deleteBlobs(ctx, keys)
		return nil
	})
	return res, err
}

func (s *Service) deleteBlobs(ctx context.Context, keys []string) {
	if s.blobs == nil {
		return
	}
	for _, key := range keys {
		if _, err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "delete document content", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

// GetClaim returns a stored claim.
func (s *Service) GetClaim(_ context.Context, id string) (Claim, error) {
	claim, ok := s.store.GetClaim(id)
	if !ok {
		return Claim{}, ErrNotFound{Entity: EntityClaim, ID: id}
	}
	return claim, nil
}

// ListClaims returns every stored claim.
func (s *Service) ListClaims(_ context.Context) domain.ClaimCollection {
	return domain.NewClaimCollection(s.store.ListClaims()...)
}

// DocumentUpload describes a file attached to a claim.
type DocumentUpload struct {
	Type        DocumentType
	Name        string
	ContentType string
	Description string
	Content     io.Reader
}

// AttachDocument stores the upload content in the blob store and records the
// document against the claim. The content is removed again when the record
// cannot be committed.
func (s *Service) AttachDocument(ctx context.Context, applicationID string, upload DocumentUpload) (Document, error) {
	var doc Document
	err := s.run(ctx, "attach_document", applicationID, func(ctx context.Context) error {
		if s.blobs == nil {
			return ErrNoBlobStore
		}
		if upload.Type == "" {
			return errors.New("document type is required")
		}
		if upload.Content == nil {
			return errors.New("document content is required")
		}
		if _, ok := s.store.GetClaim(applicationID); !ok {
			return ErrNotFound{Entity: EntityClaim, ID: applicationID}
		}

		id := uuid.NewString()
		record := domain.NewDocument(id, applicationID, upload.Type)
		if upload.ContentType != "" {
			record.ContentType = upload.ContentType
		}
		record.Name = upload.Name
		record.Description = upload.Description
		record.BlobKey = blob.DocumentKey(applicationID, id, upload.Name)

		info, err := s.blobs.Put(ctx, record.BlobKey, upload.Content, blob.PutOptions{
			ContentType: record.ContentType,
			Metadata: map[string]string{
				"application_id": applicationID,
				"document_type":  string(upload.Type),
			},
		})
		if err != nil {
			return fmt.Errorf("store document content: %w", err)
		}
		record.SizeBytes = info.Size

		_, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			doc, err = tx.CreateDocument(record)
			return err
		})
		if err != nil {
			s.deleteBlobs(ctx, []string{record.BlobKey})
			return err
		}
		return nil
	})
	return doc, err
}

// OpenDocument returns the document record and a reader over its content.
// Callers must close the reader.
func (s *Service) OpenDocument(ctx context.Context, documentID string) (Document, io.ReadCloser, error) {
	var (
		doc Document
		rc  io.ReadCloser
	)
	err := s.run(ctx, "open_document", "", func(ctx context.Context) error {
		if s.blobs == nil {
			return ErrNoBlobStore
		}
		var ok bool
		doc, ok = s.store.GetDocument(documentID)
		if !ok || doc.BlobKey == "" {
			return ErrNotFound{Entity: EntityDocument, ID: documentID}
		}
		var err error
		_, rc, err = s.blobs.Get(ctx, doc.BlobKey)
		return err
	})
	return doc, rc, err
}

// Documents returns the documents recorded for a claim.
func (s *Service) Documents(ctx context.Context, applicationID string) (domain.DocumentCollection, error) {
	var docs []Document
	err := s.store.View(ctx, func(v TransactionView) error {
		if _, ok := v.FindClaim(applicationID); !ok {
			return ErrNotFound{Entity: EntityClaim, ID: applicationID}
		}
		docs = v.DocumentsForClaim(applicationID)
		return nil
	})
	if err != nil {
		return domain.DocumentCollection{}, err
	}
	return domain.NewDocumentCollection(docs...), nil
}

// Validate evaluates the store's rules against a claim and returns the
// outstanding warnings in the shape the benefits API reports them.
func (s *Service) Validate(ctx context.Context, applicationID string) ([]Issue, error) {
	var issues []Issue
	err := s.run(ctx, "validate_claim", applicationID, func(ctx context.Context) error {
		var err error
		issues, err = s.validate(ctx, applicationID)
		return err
	})
	return issues, err
}

func (s *Service) validate(ctx context.Context, applicationID string) ([]Issue, error) {
	engine := s.store.RulesEngine()
	var res Result
	err := s.store.View(ctx, func(v TransactionView) error {
		if _, ok := v.FindClaim(applicationID); !ok {
			return ErrNotFound{Entity: EntityClaim, ID: applicationID}
		}
		if engine == nil {
			return nil
		}
		var err error
		res, err = engine.Evaluate(ctx, v, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(res.Violations))
	for _, v := range res.ForEntity(applicationID).Violations {
		if v.Severity == SeverityWarn {
			issues = append(issues, v.Issue())
		}
	}
	return issues, nil
}

// Progress builds the step graph of a stored claim from its documents and
// the warnings of the current rule set.
func (s *Service) Progress(ctx context.Context, applicationID string) (progress.ClaimSteps, error) {
	var steps progress.ClaimSteps
	err := s.run(ctx, "claim_progress", applicationID, func(ctx context.Context) error {
		pctx, issues, err := s.progressInputs(ctx, applicationID)
		if err != nil {
			return err
		}
		steps = progress.NewClaimSteps(s.flow, pctx, issues)
		return nil
	})
	return steps, err
}

// NextPage returns the first reachable page of the flow after route for a
// stored claim. ok is false when route is the last reachable page.
func (s *Service) NextPage(ctx context.Context, applicationID, route string) (string, bool, error) {
	pctx, _, err := s.progressInputs(ctx, applicationID)
	if err != nil {
		return "", false, err
	}
	if _, known := s.flow.Page(route); !known {
		return "", false, fmt.Errorf("unknown route %q", route)
	}
	next, ok := s.flow.Next(route, pctx, s.conds)
	return next, ok, nil
}

func (s *Service) progressInputs(ctx context.Context, applicationID string) (progress.Context, []Issue, error) {
	claim, ok := s.store.GetClaim(applicationID)
	if !ok {
		return progress.Context{}, nil, ErrNotFound{Entity: EntityClaim, ID: applicationID}
	}
	docs, err := s.Documents(ctx, applicationID)
	if err != nil {
		return progress.Context{}, nil, err
	}
	issues, err := s.validate(ctx, applicationID)
	if err != nil {
		return progress.Context{}, nil, err
	}
	return progress.Context{Claim: claim, Documents: docs}, issues, nil
}

// ErrNotFound is returned when reference validation fails within transactional helpers.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
