package services

import "github.com/google/uuid"

// Caller identifies who is performing a write-path operation. It is passed
// explicitly into each call rather than looked up from ambient state; every
// mutating operation requires Owner to be set before any validation runs.
type Caller struct {
	UserID uuid.UUID
	Owner  bool
}
