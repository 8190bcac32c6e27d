package orchestrator

import "ai-twin-be/pkg/apperror"

// Status is the outcome class of one pipeline stage.
type Status int

const (
	StatusOK Status = iota
	StatusRejected
	StatusDeclined
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusDeclined:
		return "declined"
	default:
		return "ok"
	}
}

// StageResult is returned by every stage instead of aborting with an error.
// Rejected and declined results end the turn before generation.
type StageResult struct {
	Status  Status
	Kind    apperror.Kind
	Message string
}

func ok() StageResult {
	return StageResult{Status: StatusOK}
}

func rejected(kind apperror.Kind, message string) StageResult {
	return StageResult{Status: StatusRejected, Kind: kind, Message: message}
}

func declined(kind apperror.Kind, message string) StageResult {
	return StageResult{Status: StatusDeclined, Kind: kind, Message: message}
}

// Terminal reports whether the turn stops at this stage.
func (r StageResult) Terminal() bool {
	return r.Status != StatusOK
}
