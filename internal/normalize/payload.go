package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// payload is a decoded event data object. Field access goes through ordered
// alias lists because the indexer emits both snake_case and camelCase
// spellings depending on contract version.
type payload map[string]interface{}

// decodePayload parses event data that may arrive either as a JSON object or
// as a JSON string containing an object.
func decodePayload(data json.RawMessage) (payload, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty event data")
	}

	raw := data
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		raw = []byte(asString)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("parse event data: %w", err)
	}
	return obj, nil
}

// lookup returns the first present alias, snake_case aliases listed first.
func (p payload) lookup(aliases ...string) (interface{}, bool) {
	for _, alias := range aliases {
		if val, ok := p[alias]; ok && val != nil {
			return val, true
		}
	}
	return nil, false
}

func (p payload) stringField(aliases ...string) (string, bool) {
	val, ok := p.lookup(aliases...)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	if !ok {
		return "", false
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return "", false
	}
	return str, true
}

func (p payload) uintField(aliases ...string) (uint64, bool) {
	val, ok := p.lookup(aliases...)
	if !ok {
		return 0, false
	}
	switch typed := val.(type) {
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case float64:
		if typed < 0 || typed != math.Trunc(typed) {
			return 0, false
		}
		return uint64(typed), true
	case json.Number:
		parsed, err := strconv.ParseUint(typed.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// bigIntField reads a base-unit amount. Amounts are transmitted as decimal
// strings; numeric payloads are accepted for older indexer rows.
func (p payload) bigIntField(aliases ...string) (*big.Int, bool) {
	val, ok := p.lookup(aliases...)
	if !ok {
		return nil, false
	}
	switch typed := val.(type) {
	case string:
		parsed, err := ParseBaseUnits(strings.TrimSpace(typed))
		if err != nil {
			return nil, false
		}
		return parsed, true
	case float64:
		if typed != math.Trunc(typed) {
			return nil, false
		}
		return new(big.Int).SetInt64(int64(typed)), true
	case json.Number:
		parsed, ok := new(big.Int).SetString(typed.String(), 10)
		if !ok {
			return nil, false
		}
		return parsed, true
	default:
		return nil, false
	}
}

// Address lower-cases an address so aggregation keys are case-insensitive
// regardless of how the contract emitted them.
func Address(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
