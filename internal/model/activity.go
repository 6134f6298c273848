package model

// ActivityType identifies one of the raffle event kinds tracked by the core.
type ActivityType string

const (
	ActivityTicketPurchase  ActivityType = "ticket_purchase"
	ActivityRaffleCreated   ActivityType = "raffle_created"
	ActivityRaffleFinalized ActivityType = "raffle_finalized"
)

// Activity is the canonical, normalized form of a raffle event. It is a
// tagged union over the three known variants; which fields are meaningful
// depends on Type.
//
// Buyer, Creator, and Winner are lower-cased hex addresses. Amount fields
// (TotalPaid, PrizeAmount) are whole-token units, never base units.
// Timestamp is the empty string until enrichment resolves the transaction
// version to wall-clock time.
type Activity struct {
	Type               ActivityType `json:"type"`
	RaffleID           uint64       `json:"raffle_id"`
	Buyer              string       `json:"buyer,omitempty"`
	Creator            string       `json:"creator,omitempty"`
	Winner             string       `json:"winner,omitempty"`
	TicketCount        uint64       `json:"ticket_count,omitempty"`
	TotalPaid          float64      `json:"total_paid,omitempty"`
	PrizeAmount        float64      `json:"prize_amount,omitempty"`
	Timestamp          string       `json:"timestamp"`
	TransactionVersion string       `json:"transaction_version"`
	BlockHeight        uint64       `json:"block_height"`
}
