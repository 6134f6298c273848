package indexer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func graphqlServer(t *testing.T, handler func(req capturedRequest) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		body, status := handler(req)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestRaffleEventsFiltered(t *testing.T) {
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		require.Equal(t, "0xcontract", req.Variables["address"])
		require.Equal(t, "%BuyTicketEvent", req.Variables["pattern"])
		return `{"data":{"events":[
			{"type":"0xc::raffle::BuyTicketEvent","indexed_type":"0xc::raffle::BuyTicketEvent",
			 "data":{"buyer":"0x1"},"transaction_version":"42","transaction_block_height":7}
		]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	events, err := client.RaffleEvents(context.Background(), "0xcontract", FilterTicketPurchases, 25, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "42", events[0].TransactionVersion)
	require.Equal(t, uint64(7), events[0].BlockHeight)
}

func TestRaffleEventsFallsBackWhenFilteredEmpty(t *testing.T) {
	calls := 0
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		calls++
		if _, filtered := req.Variables["pattern"]; filtered {
			return `{"data":{"events":[]}}`, http.StatusOK
		}
		// Unfiltered fallback returns a mix; only raffle events survive.
		return `{"data":{"events":[
			{"type":"0xc::raffle::BuyTicketEvent","data":{},"transaction_version":"1"},
			{"type":"0x1::coin::DepositEvent","data":{},"transaction_version":"2"}
		]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	events, err := client.RaffleEvents(context.Background(), "0xcontract", FilterAllRaffleEvents, 25, 0)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Len(t, events, 1)
	require.Equal(t, "1", events[0].TransactionVersion)
}

func TestQueryRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		attempts++
		if attempts < 3 {
			return `{}`, http.StatusInternalServerError
		}
		return `{"data":{"events":[]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL, WithRetries(3, time.Millisecond))
	_, err := client.AccountEvents(context.Background(), "0xcontract", 10, 0)
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestQueryDoesNotRetryGraphQLErrors(t *testing.T) {
	attempts := 0
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		attempts++
		return `{"errors":[{"message":"field not found"}]}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL, WithRetries(3, time.Millisecond))
	_, err := client.AccountEvents(context.Background(), "0xcontract", 10, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "field not found")
	require.Equal(t, 1, attempts)
}

func TestTransactionTimestamp(t *testing.T) {
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		return `{"data":{"user_transactions":[{"version":"42","timestamp":"2026-08-01T12:00:00"}]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	ts, err := client.TransactionTimestamp(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "2026-08-01T12:00:00", ts)
}

func TestTransactionTimestampUnknownVersion(t *testing.T) {
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		return `{"data":{"user_transactions":[]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	ts, err := client.TransactionTimestamp(context.Background(), "42")
	require.NoError(t, err)
	require.Empty(t, ts)
}

func TestFungibleAssetBalance(t *testing.T) {
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		return `{"data":{"current_fungible_asset_balances":[{"amount":"123456789"}]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	amount, err := client.FungibleAssetBalance(context.Background(), "0xowner", "0x1::aptos_coin::AptosCoin")
	require.NoError(t, err)
	require.Equal(t, "123456789", amount.String())
}

func TestFungibleAssetBalanceMissingRowIsZero(t *testing.T) {
	server := graphqlServer(t, func(req capturedRequest) (string, int) {
		return `{"data":{"current_fungible_asset_balances":[]}}`, http.StatusOK
	})
	defer server.Close()

	client := NewClient(server.URL)
	amount, err := client.FungibleAssetBalance(context.Background(), "0xowner", "0x1::aptos_coin::AptosCoin")
	require.NoError(t, err)
	require.Equal(t, int64(0), amount.Int64())
}
