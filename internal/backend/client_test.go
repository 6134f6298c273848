package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobalLeaderboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/leaderboard/global", r.URL.Path)
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"success":true,"data":[{"address":"0xa","total_tickets":5,"total_spent":15,"raffle_count":2,"rank":1}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	entries, err := client.GlobalLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "0xa", entries[0].Address)
	require.Equal(t, uint64(5), entries[0].TotalTickets)
}

func TestRaffleActivityPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/activity/raffle/7", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.RaffleActivity(context.Background(), 7)
	require.NoError(t, err)
}

func TestUnsuccessfulEnvelopeIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"data":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GlobalActivity(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
}

func TestNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.PlatformStats(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
