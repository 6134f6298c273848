package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"raffleScope/internal/model"
)

func rawEvent(eventType string, data string) model.RawEvent {
	return model.RawEvent{
		Type:               eventType,
		Data:               json.RawMessage(data),
		TransactionVersion: "42",
		BlockHeight:        100,
	}
}

func TestNormalizeTicketPurchase(t *testing.T) {
	// Data arrives as a JSON string containing an object.
	raw := rawEvent(
		"0xabc::raffle::BuyTicketEvent",
		`"{\"buyer\":\"0xAB\",\"raffle_id\":\"7\",\"ticket_count\":\"3\",\"total_paid\":\"300000000\"}"`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, model.ActivityTicketPurchase, activity.Type)
	require.Equal(t, "0xab", activity.Buyer)
	require.Equal(t, uint64(7), activity.RaffleID)
	require.Equal(t, uint64(3), activity.TicketCount)
	require.Equal(t, 3.0, activity.TotalPaid)
	require.Equal(t, "42", activity.TransactionVersion)
	require.Equal(t, uint64(100), activity.BlockHeight)
	require.Empty(t, activity.Timestamp)
}

func TestNormalizeTicketPurchaseObjectPayload(t *testing.T) {
	raw := rawEvent(
		"0xabc::raffle::BuyTicketEvent",
		`{"buyerAddress":"0xCD","raffleId":9,"ticketCount":2,"totalPaid":"150000000"}`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, "0xcd", activity.Buyer)
	require.Equal(t, uint64(9), activity.RaffleID)
	require.Equal(t, uint64(2), activity.TicketCount)
	require.Equal(t, 1.5, activity.TotalPaid)
}

func TestNormalizeSnakeCasePreferredOverCamel(t *testing.T) {
	raw := rawEvent(
		"0xabc::raffle::BuyTicketEvent",
		`{"buyer":"0xAA","buyerAddress":"0xBB","raffle_id":"1","ticket_count":"1"}`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, "0xaa", activity.Buyer)
}

func TestNormalizeRaffleCreatedTargetAmount(t *testing.T) {
	raw := rawEvent(
		"0xabc::raffle::RaffleCreatedEvent",
		`{"creator":"0xEF","raffle_id":"3","target_amount":"500000000","ticket_price":"10000000","total_tickets":"100"}`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, model.ActivityRaffleCreated, activity.Type)
	require.Equal(t, "0xef", activity.Creator)
	require.Equal(t, 5.0, activity.PrizeAmount)
}

func TestNormalizeRaffleCreatedPriceTimesTickets(t *testing.T) {
	// No target_amount: fall back to ticket_price * total_tickets.
	raw := rawEvent(
		"0xabc::raffle::RaffleCreatedEvent",
		`{"creator":"0xEF","raffle_id":"3","ticket_price":"10000000","total_tickets":"100"}`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, 10.0, activity.PrizeAmount)
}

func TestNormalizeRaffleCreatedZeroTargetFallsBack(t *testing.T) {
	raw := rawEvent(
		"0xabc::raffle::RaffleCreatedEvent",
		`{"creator":"0xEF","raffle_id":"3","target_amount":"0","ticket_price":"200000000","total_tickets":"2"}`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, 4.0, activity.PrizeAmount)
}

func TestNormalizeRaffleFinalized(t *testing.T) {
	raw := rawEvent(
		"0xabc::raffle::RaffleFinalizedEvent",
		`{"winner":"0x99","raffle_id":"5","prize_amount":"250000000"}`,
	)

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, model.ActivityRaffleFinalized, activity.Type)
	require.Equal(t, "0x99", activity.Winner)
	require.Equal(t, 2.5, activity.PrizeAmount)
}

func TestNormalizeUnknownEventType(t *testing.T) {
	raw := rawEvent("0xabc::coin::DepositEvent", `{"amount":"1"}`)

	_, outcome := Normalize(raw)
	require.Equal(t, OutcomeUnrecognized, outcome)
}

func TestNormalizeMalformedPayload(t *testing.T) {
	raw := rawEvent("0xabc::raffle::BuyTicketEvent", `"{not json"`)

	_, outcome := Normalize(raw)
	require.Equal(t, OutcomeBadPayload, outcome)
}

func TestNormalizeMissingRequiredField(t *testing.T) {
	raw := rawEvent("0xabc::raffle::BuyTicketEvent", `{"raffle_id":"7","ticket_count":"3"}`)

	_, outcome := Normalize(raw)
	require.Equal(t, OutcomeBadPayload, outcome)
}

func TestNormalizePrefersIndexedType(t *testing.T) {
	raw := model.RawEvent{
		Type:        "0xabc::raffle::SomethingElse",
		IndexedType: "0xabc::raffle::BuyTicketEvent",
		Data:        json.RawMessage(`{"buyer":"0x1","raffle_id":"1","ticket_count":"1"}`),
	}

	activity, outcome := Normalize(raw)
	require.Equal(t, OutcomeOK, outcome)
	require.Equal(t, model.ActivityTicketPurchase, activity.Type)
}
