package indexer

import (
	"fmt"
	"strings"

	"raffleScope/internal/normalize"
)

// EventFilter selects which raffle event kinds a query should match.
type EventFilter int

const (
	// FilterAllRaffleEvents matches all three raffle event kinds.
	FilterAllRaffleEvents EventFilter = iota
	// FilterTicketPurchases matches ticket purchase events only.
	FilterTicketPurchases
	// FilterRaffleCreations matches raffle creation events only.
	FilterRaffleCreations
	// FilterRaffleFinalizations matches raffle finalization events only.
	FilterRaffleFinalizations
)

func (f EventFilter) patterns() []string {
	switch f {
	case FilterTicketPurchases:
		return []string{normalize.PatternBuyTicket}
	case FilterRaffleCreations:
		return []string{normalize.PatternRaffleCreated}
	case FilterRaffleFinalizations:
		return []string{normalize.PatternRaffleFinalized}
	default:
		return []string{
			normalize.PatternBuyTicket,
			normalize.PatternRaffleCreated,
			normalize.PatternRaffleFinalized,
		}
	}
}

// Pattern renders the filter as a SQL SIMILAR TO pattern for the indexer's
// _similar operator. Event type columns embed the module path, so patterns
// match by suffix.
func (f EventFilter) Pattern() string {
	names := f.patterns()
	if len(names) == 1 {
		return "%" + names[0]
	}
	return fmt.Sprintf("%%(%s)", strings.Join(names, "|"))
}
