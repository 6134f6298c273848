package aggregate

import (
	"testing"

	"raffleScope/internal/model"
)

func TestStatsBasic(t *testing.T) {
	activities := []model.Activity{
		{Type: model.ActivityTicketPurchase, Buyer: "0xa", TicketCount: 5, TotalPaid: 5.0},
		{Type: model.ActivityTicketPurchase, Buyer: "0xb", TicketCount: 1, TotalPaid: 1.0},
		{Type: model.ActivityTicketPurchase, Buyer: "0xa", TicketCount: 2, TotalPaid: 2.0},
		{Type: model.ActivityRaffleCreated, Creator: "0xc"},
	}

	stats := Stats(activities)
	if stats.TotalTicketsSold != 8 {
		t.Fatalf("tickets sold = %d, want 8", stats.TotalTicketsSold)
	}
	if stats.TotalVolume != 8.0 {
		t.Fatalf("volume = %v, want 8.0", stats.TotalVolume)
	}
	if stats.UniqueParticipants != 2 {
		t.Fatalf("participants = %d, want 2", stats.UniqueParticipants)
	}
	if stats.AverageTicketsPerUser != 4.0 {
		t.Fatalf("average = %v, want 4.0", stats.AverageTicketsPerUser)
	}
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	if stats.UniqueParticipants != 0 || stats.AverageTicketsPerUser != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestStatsIgnoresNonPurchases(t *testing.T) {
	activities := []model.Activity{
		{Type: model.ActivityRaffleCreated, Creator: "0xa"},
		{Type: model.ActivityRaffleFinalized, Winner: "0xb", PrizeAmount: 10},
	}
	stats := Stats(activities)
	if stats.TotalTicketsSold != 0 || stats.UniqueParticipants != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}
