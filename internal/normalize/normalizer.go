package normalize

import (
	"fmt"
	"math/big"
	"strings"

	"raffleScope/internal/model"
)

// Event type name patterns. The indexer type field embeds the full module
// path (address::module::EventName), so matching is by suffix.
const (
	PatternBuyTicket       = "BuyTicketEvent"
	PatternRaffleCreated   = "RaffleCreatedEvent"
	PatternRaffleFinalized = "RaffleFinalizedEvent"
)

// Outcome reports what Normalize did with a raw event.
type Outcome int

const (
	// OutcomeOK means the event normalized into an Activity.
	OutcomeOK Outcome = iota
	// OutcomeUnrecognized means the event type matches none of the known
	// raffle variants. Such events are dropped silently.
	OutcomeUnrecognized
	// OutcomeBadPayload means the event type matched but the payload could
	// not be parsed. The event is dropped and reported to the error sink.
	OutcomeBadPayload
)

// Classify maps a fully-qualified event type string to an activity kind.
func Classify(eventType string) (model.ActivityType, bool) {
	switch {
	case strings.Contains(eventType, PatternBuyTicket):
		return model.ActivityTicketPurchase, true
	case strings.Contains(eventType, PatternRaffleCreated):
		return model.ActivityRaffleCreated, true
	case strings.Contains(eventType, PatternRaffleFinalized):
		return model.ActivityRaffleFinalized, true
	default:
		return "", false
	}
}

// Normalize converts a raw indexer event into a canonical Activity. It never
// returns an error: unknown event types and malformed payloads yield a
// non-OK outcome and the zero Activity.
//
// Amounts are converted from base units to whole tokens here; nothing past
// the normalizer sees base-unit integers. Timestamp is left empty for the
// enricher to fill.
func Normalize(raw model.RawEvent) (model.Activity, Outcome) {
	kind, ok := Classify(raw.EventType())
	if !ok {
		return model.Activity{}, OutcomeUnrecognized
	}

	fields, err := decodePayload(raw.Data)
	if err != nil {
		return model.Activity{}, OutcomeBadPayload
	}

	var activity model.Activity
	switch kind {
	case model.ActivityTicketPurchase:
		activity, err = parseTicketPurchase(fields)
	case model.ActivityRaffleCreated:
		activity, err = parseRaffleCreated(fields)
	case model.ActivityRaffleFinalized:
		activity, err = parseRaffleFinalized(fields)
	}
	if err != nil {
		return model.Activity{}, OutcomeBadPayload
	}

	activity.TransactionVersion = raw.TransactionVersion
	activity.BlockHeight = raw.BlockHeight
	return activity, OutcomeOK
}

func parseTicketPurchase(fields payload) (model.Activity, error) {
	buyer, ok := fields.stringField("buyer", "buyer_address", "buyerAddress", "user")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing buyer")
	}
	raffleID, ok := fields.uintField("raffle_id", "raffleId", "id")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing raffle_id")
	}
	ticketCount, ok := fields.uintField("ticket_count", "ticketCount", "count")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing ticket_count")
	}
	totalPaid, ok := fields.bigIntField("total_paid", "totalPaid", "amount")
	if !ok {
		totalPaid = big.NewInt(0)
	}

	return model.Activity{
		Type:        model.ActivityTicketPurchase,
		Buyer:       Address(buyer),
		RaffleID:    raffleID,
		TicketCount: ticketCount,
		TotalPaid:   ToTokens(totalPaid, OctaDecimals),
	}, nil
}

func parseRaffleCreated(fields payload) (model.Activity, error) {
	creator, ok := fields.stringField("creator", "creator_address", "creatorAddress", "owner")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing creator")
	}
	raffleID, ok := fields.uintField("raffle_id", "raffleId", "id")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing raffle_id")
	}

	return model.Activity{
		Type:        model.ActivityRaffleCreated,
		Creator:     Address(creator),
		RaffleID:    raffleID,
		PrizeAmount: ToTokens(prizeEstimate(fields), OctaDecimals),
	}, nil
}

func parseRaffleFinalized(fields payload) (model.Activity, error) {
	winner, ok := fields.stringField("winner", "winner_address", "winnerAddress")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing winner")
	}
	raffleID, ok := fields.uintField("raffle_id", "raffleId", "id")
	if !ok {
		return model.Activity{}, fmt.Errorf("missing raffle_id")
	}
	prize, ok := fields.bigIntField("prize_amount", "prizeAmount", "amount")
	if !ok {
		prize = big.NewInt(0)
	}

	return model.Activity{
		Type:        model.ActivityRaffleFinalized,
		Winner:      Address(winner),
		RaffleID:    raffleID,
		PrizeAmount: ToTokens(prize, OctaDecimals),
	}, nil
}

// prizeEstimate approximates the prize for a creation event. The event does
// not carry the true prize directly: target_amount is used when present and
// nonzero, otherwise ticket_price * total_tickets.
func prizeEstimate(fields payload) *big.Int {
	if target, ok := fields.bigIntField("target_amount", "targetAmount"); ok && target.Sign() != 0 {
		return target
	}

	price, okPrice := fields.bigIntField("ticket_price", "ticketPrice")
	total, okTotal := fields.uintField("total_tickets", "totalTickets", "max_tickets", "maxTickets")
	if !okPrice || !okTotal {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(price, new(big.Int).SetUint64(total))
}
