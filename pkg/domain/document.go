package domain

import "time"

// DocumentType classifies an uploaded supporting document.
type DocumentType string

// Document types recognised by the claims system.
const (
	DocumentTypeIdentityProof             DocumentType = "Identification Proof"
	DocumentTypeCertification             DocumentType = "State managed Paid Leave Confirmation"
	DocumentTypeOwnSeriousHealthCondition DocumentType = "Own serious health condition form"
	DocumentTypePregnancyAndMaternity     DocumentType = "Pregnancy/Maternity form"
	DocumentTypeChildBondingEvidence      DocumentType = "Child bonding evidence form"
	DocumentTypeCareForFamilyMember       DocumentType = "Care for a family member form"
)

// Document is a file uploaded in support of a claim.
type Document struct {
	FineosDocumentID string       `json:"fineos_document_id"`
	ApplicationID    string       `json:"application_id"`
	DocumentType     DocumentType `json:"document_type"`
	ContentType      string       `json:"content_type"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	BlobKey          string       `json:"blob_key,omitempty"`
	SizeBytes        int64        `json:"size_bytes,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// NewDocument returns a document record for an application.
func NewDocument(id, applicationID string, docType DocumentType) Document {
	return Document{
		FineosDocumentID: id,
		ApplicationID:    applicationID,
		DocumentType:     docType,
		ContentType:      "application/pdf",
	}
}

// DocumentID returns the id key of a document.
func DocumentID(d Document) string { return d.FineosDocumentID }

// RecordID implements Identified.
func (d Document) RecordID() string { return d.FineosDocumentID }

// IsIdentityProof reports whether the document proves the claimant's identity.
func (d Document) IsIdentityProof() bool { return d.DocumentType == DocumentTypeIdentityProof }

// IsCertification reports whether the document certifies the leave reason.
// Every type other than identity proof counts.
func (d Document) IsCertification() bool { return d.DocumentType != "" && !d.IsIdentityProof() }

// CertificationTypeFor returns the certification form expected for a leave reason.
func CertificationTypeFor(reason LeaveReason) DocumentType {
	switch reason {
	case LeaveReasonMedical:
		return DocumentTypeOwnSeriousHealthCondition
	case LeaveReasonPregnancy:
		return DocumentTypePregnancyAndMaternity
	case LeaveReasonBonding:
		return DocumentTypeChildBondingEvidence
	case LeaveReasonCare:
		return DocumentTypeCareForFamilyMember
	default:
		return DocumentTypeCertification
	}
}
