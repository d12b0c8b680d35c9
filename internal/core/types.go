package core

import "pfmlportal/pkg/domain"

type (
	EntityType         = domain.EntityType
	Severity           = domain.Severity
	Claim              = domain.Claim
	Document           = domain.Document
	DocumentType       = domain.DocumentType
	Issue              = domain.Issue
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
)

const (
	EntityClaim    = domain.EntityClaim
	EntityDocument = domain.EntityDocument
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
