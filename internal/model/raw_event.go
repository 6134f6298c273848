package model

import (
	"encoding/json"
)

// RawEvent is an on-chain event row as returned by the GraphQL indexer.
// Data may arrive as a JSON object or as a JSON-encoded string depending on
// the indexer version, so it is kept raw until normalization.
type RawEvent struct {
	Type               string          `json:"type"`
	IndexedType        string          `json:"indexed_type"`
	Data               json.RawMessage `json:"data"`
	TransactionVersion string          `json:"transaction_version"`
	BlockHeight        uint64          `json:"transaction_block_height"`
}

// EventType returns the most specific type string available for the event.
// The narrower indexed_type column is occasionally left unpopulated by the
// indexer, in which case the full type string is used.
func (re RawEvent) EventType() string {
	if re.IndexedType != "" {
		return re.IndexedType
	}
	return re.Type
}
