package model

// ParseError records a normalization failure for a raw event. Failed events
// are dropped from the activity stream but kept in an error sink for
// inspection.
type ParseError struct {
	EventType          string `json:"event_type"`
	TransactionVersion string `json:"transaction_version"`
	BlockHeight        uint64 `json:"block_height"`
	Error              string `json:"error"`
}
