package errors

// RuleErrorKind distinguishes the two ways a rule can fail
type RuleErrorKind int

const (
	// RuleIOFailure means the rule's action returned an error
	RuleIOFailure RuleErrorKind = iota

	// RuleDomainFailure means the rule's action returned a StrError result
	RuleDomainFailure
)

// String returns the string representation of the kind
func (k RuleErrorKind) String() string {
	if k == RuleDomainFailure {
		return "domain"
	}
	return "io"
}

// RuleError is the cause carried by an ErrRuleFailed error
type RuleError struct {
	Kind    RuleErrorKind
	Message string
	Err     error
}

// NewRuleIOError wraps an error returned by a rule's action
func NewRuleIOError(err error) *RuleError {
	return &RuleError{Kind: RuleIOFailure, Err: err}
}

// NewRuleDomainError creates a rule error from a StrError message
func NewRuleDomainError(message string) *RuleError {
	return &RuleError{Kind: RuleDomainFailure, Message: message}
}

// Error implements the error interface
func (e *RuleError) Error() string {
	if e.Kind == RuleIOFailure && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying I/O error, if any
func (e *RuleError) Unwrap() error {
	return e.Err
}
