package aggregate

import (
	"sort"

	"raffleScope/internal/model"
)

// buyerAccumulator holds running totals for one buyer address.
type buyerAccumulator struct {
	address string
	tickets uint64
	spent   float64
	raffles map[uint64]struct{}
}

// Leaderboard folds ticket purchases into ranked per-buyer totals. Buyers are
// sorted descending by total tickets (ties keep first-seen order), truncated
// to limit when limit > 0, and ranked 1-based within the returned page.
//
// Rank restarts at 1 for the page rather than carrying a global position; the
// consuming product treats page position as the rank.
func Leaderboard(activities []model.Activity, limit int) []model.LeaderboardEntry {
	accumulators := make(map[string]*buyerAccumulator)
	order := make([]string, 0)

	for _, activity := range activities {
		if activity.Type != model.ActivityTicketPurchase {
			continue
		}
		acc := accumulators[activity.Buyer]
		if acc == nil {
			acc = &buyerAccumulator{
				address: activity.Buyer,
				raffles: make(map[uint64]struct{}),
			}
			accumulators[activity.Buyer] = acc
			order = append(order, activity.Buyer)
		}
		acc.tickets += activity.TicketCount
		acc.spent += activity.TotalPaid
		acc.raffles[activity.RaffleID] = struct{}{}
	}

	entries := make([]model.LeaderboardEntry, 0, len(order))
	for _, address := range order {
		acc := accumulators[address]
		entries = append(entries, model.LeaderboardEntry{
			Address:      acc.address,
			TotalTickets: acc.tickets,
			TotalSpent:   acc.spent,
			RaffleCount:  len(acc.raffles),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalTickets > entries[j].TotalTickets
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
