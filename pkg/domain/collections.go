package domain

import "slices"

// ClaimCollection is the claims list for a signed-in user, keyed by application id.
type ClaimCollection struct {
	Collection[Claim]
}

// NewClaimCollection builds a claim collection.
func NewClaimCollection(claims ...Claim) ClaimCollection {
	return ClaimCollection{NewCollection(ClaimID, claims...)}
}

func (c ClaimCollection) withStatus(status ClaimStatus) ClaimCollection {
	return ClaimCollection{c.Filter(func(cl Claim) bool { return cl.Status == status })}
}

// InProgress returns claims that have not been submitted.
func (c ClaimCollection) InProgress() ClaimCollection { return c.withStatus(ClaimStatusStarted) }

// Submitted returns claims whose first part has been submitted.
func (c ClaimCollection) Submitted() ClaimCollection { return c.withStatus(ClaimStatusSubmitted) }

// Completed returns fully completed claims.
func (c ClaimCollection) Completed() ClaimCollection { return c.withStatus(ClaimStatusCompleted) }

// DocumentCollection is the set of documents loaded for one or more claims.
type DocumentCollection struct {
	Collection[Document]
}

// NewDocumentCollection builds a document collection.
func NewDocumentCollection(docs ...Document) DocumentCollection {
	return DocumentCollection{NewCollection(DocumentID, docs...)}
}

// ForApplication returns documents attached to the given application.
func (c DocumentCollection) ForApplication(applicationID string) DocumentCollection {
	return DocumentCollection{c.Filter(func(d Document) bool { return d.ApplicationID == applicationID })}
}

// OfTypes returns documents whose type is one of types.
func (c DocumentCollection) OfTypes(types ...DocumentType) DocumentCollection {
	return DocumentCollection{c.Filter(func(d Document) bool { return slices.Contains(types, d.DocumentType) })}
}

// IdentityProofs returns identification documents.
func (c DocumentCollection) IdentityProofs() DocumentCollection {
	return DocumentCollection{c.Filter(Document.IsIdentityProof)}
}

// Certifications returns leave certification documents.
func (c DocumentCollection) Certifications() DocumentCollection {
	return DocumentCollection{c.Filter(Document.IsCertification)}
}

// PaymentCollection is the payment history of a claim.
type PaymentCollection struct {
	Collection[Payment]
}

// NewPaymentCollection builds a payment collection.
func NewPaymentCollection(payments ...Payment) PaymentCollection {
	return PaymentCollection{NewCollection(PaymentID, payments...)}
}
