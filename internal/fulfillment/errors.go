package fulfillment

// ValidationError marks structurally invalid payloads: missing required
// fields, missing type-specific fields, unknown donation types.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError marks references to requests or institutions that do not
// exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
