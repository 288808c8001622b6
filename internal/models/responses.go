package models

import "github.com/kasunvimarshana/AutoERP-sub011/internal/domain"

// DefinitionDetail is the hydrated definition returned by the API: the
// definition row plus its full graph.
type DefinitionDetail struct {
	domain.WorkflowDefinition
	States      []domain.WorkflowState      `json:"states"`
	Transitions []domain.WorkflowTransition `json:"transitions"`
}

// ErrorResponse carries a domain error message to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateUserResponse returns the issued API key exactly once.
type CreateUserResponse struct {
	ID     int64  `json:"id"`
	ApiKey string `json:"api_key"`
}
