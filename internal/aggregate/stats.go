package aggregate

import (
	"raffleScope/internal/model"
)

// Stats computes summary statistics over ticket purchases in a single pass.
// With no participants the average is zero, not a division error.
func Stats(activities []model.Activity) model.RaffleStats {
	var stats model.RaffleStats
	participants := make(map[string]struct{})

	for _, activity := range activities {
		if activity.Type != model.ActivityTicketPurchase {
			continue
		}
		stats.TotalTicketsSold += activity.TicketCount
		stats.TotalVolume += activity.TotalPaid
		participants[activity.Buyer] = struct{}{}
	}

	stats.UniqueParticipants = len(participants)
	if stats.UniqueParticipants > 0 {
		stats.AverageTicketsPerUser = float64(stats.TotalTicketsSold) / float64(stats.UniqueParticipants)
	}
	return stats
}
