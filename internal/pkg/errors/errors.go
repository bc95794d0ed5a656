package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyDataset signals a source table with a header but no data rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrOntologyInvalid signals an ontology definition that cannot be used.
	ErrOntologyInvalid = errors.New("invalid ontology")
)
