package storage

import "raffleScope/internal/model"

// Storage defines a sink for normalized activity records.
type Storage interface {
	PutActivityBatch(activities []model.Activity) error
}

// ErrorSink receives events that failed normalization.
type ErrorSink interface {
	PutParseErrors(errs []model.ParseError) error
}
