package service

// OutcomeKind distinguishes the non-error results of Register.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeValidationFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a registration that did not fail internally.
// Message is set on success; ValidationErrors maps field names to localized
// messages when validation failed.
type Outcome struct {
	Kind             OutcomeKind
	Message          string
	ValidationErrors map[string]string
}
