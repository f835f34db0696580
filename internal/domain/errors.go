package domain

import "errors"

// Sentinel errors for engine operations
var (
	// ErrServiceUnavailable indicates the chat service collaborator is
	// absent (session closed or never attached)
	ErrServiceUnavailable = errors.New("chat service is unavailable")

	// ErrNoGroupSelected indicates an operation that requires a selected
	// group was invoked without one
	ErrNoGroupSelected = errors.New("no group selected")

	// ErrEmptyGroupID indicates a group operation received an empty id
	ErrEmptyGroupID = errors.New("group id is empty")

	// ErrEmptyContent indicates a send was attempted with no content
	ErrEmptyContent = errors.New("message content is empty")

	// ErrEmptyGroupName indicates group creation received no name
	ErrEmptyGroupName = errors.New("group name is empty")

	// ErrOperationRejected indicates the transport reported failure
	// without a transport error (falsy success indicator)
	ErrOperationRejected = errors.New("operation rejected by relay")

	// ErrGroupNotFound indicates the named group is not in the joined set
	ErrGroupNotFound = errors.New("group not found")
)
