package model

// LeaderboardEntry is one row of a ticket-purchase leaderboard.
// Rank is a dense 1-based ordinal assigned within the returned page.
type LeaderboardEntry struct {
	Address      string  `json:"address"`
	TotalTickets uint64  `json:"total_tickets"`
	TotalSpent   float64 `json:"total_spent"`
	RaffleCount  int     `json:"raffle_count"`
	Rank         int     `json:"rank"`
}

// RaffleStats summarizes ticket-purchase activity.
type RaffleStats struct {
	TotalTicketsSold      uint64  `json:"total_tickets_sold"`
	TotalVolume           float64 `json:"total_volume"`
	UniqueParticipants    int     `json:"unique_participants"`
	AverageTicketsPerUser float64 `json:"average_tickets_per_user"`
}
