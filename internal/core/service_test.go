package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfmlportal/internal/blob"
	"pfmlportal/internal/logging"
	"pfmlportal/internal/progress"
	"pfmlportal/pkg/domain"
)

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	ended map[string][]error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	if c.ended == nil {
		c.ended = make(map[string][]error)
	}
	return ctx, captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s captureSpan) End(err error) { s.tracer.ended[s.op] = append(s.tracer.ended[s.op], err) }

func newTestService(t *testing.T, opts ...Option) (*Service, blob.Store) {
	t.Helper()
	blobs := blob.NewMemory()
	opts = append([]Option{WithBlobStore(blobs)}, opts...)
	return NewInMemoryService(NewDefaultRulesEngine(), opts...), blobs
}

func createReady(t *testing.T, svc *Service, id string) Claim {
	t.Helper()
	created, res, err := svc.CreateClaim(context.Background(), readyClaim(id))
	require.NoError(t, err)
	require.Empty(t, res.Violations)
	return created
}

func TestServiceCreateClaimReportsWarnings(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, res, err := svc.CreateClaim(ctx, domain.Claim{})
	require.NoError(t, err)
	require.NotEmpty(t, created.ApplicationID)
	assert.Equal(t, domain.ClaimStatusStarted, created.Status)
	assert.NotEmpty(t, res.Violations)
	assert.False(t, res.HasBlocking())

	got, err := svc.GetClaim(ctx, created.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, created.ApplicationID, got.ApplicationID)

	_, err = svc.GetClaim(ctx, "missing")
	var nf ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, EntityClaim, nf.Entity)
	assert.Equal(t, "claim missing not found", nf.Error())
}

func TestServiceUpdateClaim(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createReady(t, svc, "app-1")

	updated, res, err := svc.UpdateClaim(ctx, "app-1", func(c *Claim) error {
		c.FirstName = ""
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, updated.FirstName)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "first_name", res.Violations[0].Field)

	_, _, err = svc.UpdateClaim(ctx, "app-1", func(c *Claim) error {
		c.Status = domain.ClaimStatusCompleted
		return nil
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	boom := errors.New("boom")
	_, _, err = svc.UpdateClaim(ctx, "app-1", func(*Claim) error { return boom })
	require.ErrorIs(t, err, boom)

	_, _, err = svc.UpdateClaim(ctx, "nope", func(*Claim) error { return nil })
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceSubmitBlockedByOutstandingIssues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, _, err := svc.CreateClaim(ctx, domain.NewClaim("app-1"))
	require.NoError(t, err)

	_, res, err := svc.SubmitClaim(ctx, created.ApplicationID)
	var violation RuleViolationError
	require.ErrorAs(t, err, &violation)
	assert.True(t, res.HasBlocking())

	got, err := svc.GetClaim(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusStarted, got.Status)
}

func TestServiceSubmitAndComplete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createReady(t, svc, "app-1")

	submitted, _, err := svc.SubmitClaim(ctx, "app-1")
	require.NoError(t, err)
	assert.True(t, submitted.IsSubmitted())

	_, _, err = svc.SubmitClaim(ctx, "app-1")
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, _, err = svc.CompleteClaim(ctx, "app-1")
	require.ErrorAs(t, err, &RuleViolationError{})

	_, _, err = svc.UpdateClaim(ctx, "app-1", func(c *Claim) error {
		c.HasSubmittedPaymentPreference = true
		c.PaymentPreference = &domain.PaymentPreference{PaymentMethod: domain.PaymentMethodCheck}
		c.IsWithholdingTax = ptr(true)
		return nil
	})
	require.NoError(t, err)
	for _, docType := range []domain.DocumentType{domain.DocumentTypeIdentityProof, domain.DocumentTypeOwnSeriousHealthCondition} {
		_, err := svc.AttachDocument(ctx, "app-1", DocumentUpload{Type: docType, Name: "scan.pdf", Content: strings.NewReader("%PDF")})
		require.NoError(t, err)
	}

	completed, _, err := svc.CompleteClaim(ctx, "app-1")
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted())

	_, _, err = svc.CompleteClaim(ctx, "missing")
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceAttachAndOpenDocument(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	createReady(t, svc, "app-1")

	doc, err := svc.AttachDocument(ctx, "app-1", DocumentUpload{
		Type:        domain.DocumentTypeIdentityProof,
		Name:        "../license.png",
		ContentType: "image/png",
		Content:     bytes.NewReader([]byte("png-bytes")),
	})
	require.NoError(t, err)
	assert.Equal(t, "app-1", doc.ApplicationID)
	assert.Equal(t, "image/png", doc.ContentType)
	assert.Equal(t, int64(len("png-bytes")), doc.SizeBytes)
	assert.Equal(t, blob.DocumentKey("app-1", doc.FineosDocumentID, "license.png"), doc.BlobKey)

	info, err := blobs.Head(ctx, doc.BlobKey)
	require.NoError(t, err)
	assert.Equal(t, "app-1", info.Metadata["application_id"])

	got, rc, err := svc.OpenDocument(ctx, doc.FineosDocumentID)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, doc.FineosDocumentID, got.FineosDocumentID)

	docs, err := svc.Documents(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, 1, docs.IdentityProofs().Len())

	_, _, err = svc.OpenDocument(ctx, "missing")
	require.ErrorAs(t, err, &ErrNotFound{})
	_, err = svc.Documents(ctx, "missing")
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceAttachDocumentErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	createReady(t, svc, "app-1")

	_, err := svc.AttachDocument(ctx, "missing", DocumentUpload{Type: domain.DocumentTypeIdentityProof, Content: strings.NewReader("x")})
	require.ErrorAs(t, err, &ErrNotFound{})
	_, err = svc.AttachDocument(ctx, "app-1", DocumentUpload{Content: strings.NewReader("x")})
	require.Error(t, err)
	_, err = svc.AttachDocument(ctx, "app-1", DocumentUpload{Type: domain.DocumentTypeIdentityProof})
	require.Error(t, err)

	noBlobs := NewInMemoryService(NewDefaultRulesEngine())
	_, err = noBlobs.AttachDocument(ctx, "app-1", DocumentUpload{Type: domain.DocumentTypeIdentityProof, Content: strings.NewReader("x")})
	require.ErrorIs(t, err, ErrNoBlobStore)
	_, _, err = noBlobs.OpenDocument(ctx, "doc")
	require.ErrorIs(t, err, ErrNoBlobStore)
}

func TestServiceDeleteClaimRemovesDocumentsAndContent(t *testing.T) {
	svc, blobs := newTestService(t)
	ctx := context.Background()
	createReady(t, svc, "app-1")
	doc, err := svc.AttachDocument(ctx, "app-1", DocumentUpload{Type: domain.DocumentTypeIdentityProof, Name: "id.pdf", Content: strings.NewReader("x")})
	require.NoError(t, err)

	_, err = svc.DeleteClaim(ctx, "app-1")
	require.NoError(t, err)
	assert.Empty(t, svc.ListClaims(ctx).Items())
	assert.Empty(t, svc.Store().ListDocuments())
	_, err = blobs.Head(ctx, doc.BlobKey)
	require.ErrorIs(t, err, blob.ErrNotFound)

	_, err = svc.DeleteClaim(ctx, "app-1")
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceValidate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createReady(t, svc, "app-1")
	_, _, err := svc.CreateClaim(ctx, domain.NewClaim("app-2"))
	require.NoError(t, err)

	issues, err := svc.Validate(ctx, "app-1")
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = svc.Validate(ctx, "app-2")
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	var rules []string
	for _, issue := range issues {
		if issue.Rule != "" {
			rules = append(rules, issue.Rule)
		}
	}
	assert.Equal(t, []string{RuleMinLeavePeriods}, rules)

	_, err = svc.Validate(ctx, "missing")
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.CreateClaim(ctx, domain.NewClaim("draft"))
	require.NoError(t, err)
	createReady(t, svc, "ready")

	steps, err := svc.Progress(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, progress.StatusNotStarted, steps.VerifyID.Status())
	assert.Equal(t, progress.StatusDisabled, steps.EmployerInformation.Status())
	assert.Equal(t, progress.StatusDisabled, steps.Payment.Status())

	steps, err = svc.Progress(ctx, "ready")
	require.NoError(t, err)
	for _, step := range []*progress.Step{steps.VerifyID, steps.EmployerInformation, steps.LeaveDetails, steps.OtherLeave} {
		assert.Equal(t, progress.StatusCompleted, step.Status(), step.Name)
	}
	assert.Same(t, steps.ReviewAndConfirm, steps.NextIncomplete())

	_, _, err = svc.SubmitClaim(ctx, "ready")
	require.NoError(t, err)
	steps, err = svc.Progress(ctx, "ready")
	require.NoError(t, err)
	assert.Equal(t, progress.StatusCompleted, steps.ReviewAndConfirm.Status())
	assert.Equal(t, progress.StatusNotStarted, steps.Payment.Status())
	assert.Same(t, steps.Payment, steps.NextIncomplete())

	_, err = svc.Progress(ctx, "missing")
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceNextPage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createReady(t, svc, "app-1")

	next, ok, err := svc.NextPage(ctx, "app-1", "/applications/leave-reason")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "/applications/medical", next)

	_, ok, err = svc.NextPage(ctx, "app-1", "/applications/success")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.NextPage(ctx, "app-1", "/nowhere")
	require.Error(t, err)
	_, _, err = svc.NextPage(ctx, "missing", "/applications/name")
	require.ErrorAs(t, err, &ErrNotFound{})
}

func TestServiceObservability(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	var logs bytes.Buffer
	logger, err := logging.New(&logs, logging.LevelDebug, logging.FormatJSON)
	require.NoError(t, err)

	ticks := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		ticks = ticks.Add(time.Millisecond)
		return ticks
	}
	svc, _ := newTestService(t, WithMetricsRecorder(metrics), WithTracer(tracer), WithLogger(logger), WithClock(clock))
	ctx := context.Background()

	createReady(t, svc, "app-1")
	_, _, err = svc.SubmitClaim(ctx, "missing")
	require.Error(t, err)

	assert.True(t, metrics.has("create_claim", true))
	assert.True(t, metrics.has("submit_claim", false))
	require.Len(t, tracer.ended["create_claim"], 1)
	assert.NoError(t, tracer.ended["create_claim"][0])
	assert.Error(t, tracer.ended["submit_claim"][0])

	out := logs.String()
	assert.Contains(t, out, `"operation":"create_claim"`)
	assert.Contains(t, out, `"application_id":"app-1"`)
	assert.Contains(t, out, `"msg":"operation failed"`)
}

func TestServiceNilOptionsFallBackToNoops(t *testing.T) {
	svc := NewInMemoryService(nil, WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil), WithClock(nil))
	_, _, err := svc.CreateClaim(context.Background(), domain.NewClaim("app-1"))
	require.NoError(t, err)
	issues, err := svc.Validate(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Empty(t, issues, "no rules are registered")
	assert.NotEmpty(t, svc.Flow().Pages)
}
