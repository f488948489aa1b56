package resolve

import "errors"

var (
	// ErrSealed is returned when the registry is modified after Finalize
	ErrSealed = errors.New("registry is sealed")
	// ErrNotSealed is returned when a finished registry is required but
	// crawling has not completed
	ErrNotSealed = errors.New("registry is not sealed; call Finalize first")
)
