package errors

// Diagnostic is a structured, non-fatal finding collected during an analysis
// run and returned alongside the normal result. Nothing that could not be
// fully resolved is thrown away silently.
type Diagnostic struct {
	Code    Code   `json:"code"`
	Subject string `json:"subject,omitempty"` // type, rule, or member involved
	Message string `json:"message"`
}

// Diag is a convenience constructor for a Diagnostic.
func Diag(code Code, subject, message string) Diagnostic {
	return Diagnostic{Code: code, Subject: subject, Message: message}
}
