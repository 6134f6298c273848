package indexer

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"raffleScope/internal/model"
	"raffleScope/internal/normalize"
)

const filteredEventsQuery = `
query RaffleEvents($address: String!, $pattern: String!, $limit: Int!, $offset: Int!) {
  events(
    where: {
      account_address: {_eq: $address}
      indexed_type: {_similar: $pattern}
    }
    order_by: {transaction_version: desc}
    limit: $limit
    offset: $offset
  ) {
    type
    indexed_type
    data
    transaction_version
    transaction_block_height
  }
}`

const accountEventsQuery = `
query AccountEvents($address: String!, $limit: Int!, $offset: Int!) {
  events(
    where: {account_address: {_eq: $address}}
    order_by: {transaction_version: desc}
    limit: $limit
    offset: $offset
  ) {
    type
    indexed_type
    data
    transaction_version
    transaction_block_height
  }
}`

const transactionTimestampQuery = `
query TransactionTimestamp($version: bigint!) {
  user_transactions(where: {version: {_eq: $version}}, limit: 1) {
    version
    timestamp
  }
}`

const fungibleAssetBalanceQuery = `
query FungibleAssetBalance($owner: String!, $asset: String!) {
  current_fungible_asset_balances(
    where: {owner_address: {_eq: $owner}, asset_type: {_eq: $asset}}
  ) {
    amount
  }
}`

type eventsData struct {
	Events []model.RawEvent `json:"events"`
}

type userTransactionsData struct {
	UserTransactions []struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	} `json:"user_transactions"`
}

type faBalancesData struct {
	Balances []struct {
		Amount string `json:"amount"`
	} `json:"current_fungible_asset_balances"`
}

// RaffleEvents fetches raw raffle events for a contract address, filtered to
// the given event kinds. When the filtered query returns zero rows it falls
// back to the unfiltered account events query, because the indexer sometimes
// fails to populate the indexed_type column.
func (c *Client) RaffleEvents(ctx context.Context, address string, filter EventFilter, limit, offset int) ([]model.RawEvent, error) {
	var data eventsData
	err := c.query(ctx, filteredEventsQuery, map[string]interface{}{
		"address": address,
		"pattern": filter.Pattern(),
		"limit":   limit,
		"offset":  offset,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("raffle events: %w", err)
	}
	if len(data.Events) > 0 {
		return data.Events, nil
	}

	c.logger.Debug("filtered events empty, falling back to account events",
		zap.String("address", address), zap.String("pattern", filter.Pattern()))

	events, err := c.AccountEvents(ctx, address, limit, offset)
	if err != nil {
		return nil, err
	}

	matched := make([]model.RawEvent, 0, len(events))
	for _, event := range events {
		if _, ok := normalize.Classify(event.EventType()); ok {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

// AccountEvents fetches all events for a contract address, unfiltered by type.
func (c *Client) AccountEvents(ctx context.Context, address string, limit, offset int) ([]model.RawEvent, error) {
	var data eventsData
	err := c.query(ctx, accountEventsQuery, map[string]interface{}{
		"address": address,
		"limit":   limit,
		"offset":  offset,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("account events: %w", err)
	}
	return data.Events, nil
}

// TransactionTimestamp resolves a transaction version to its wall-clock
// timestamp. Returns an empty string when the version is unknown.
func (c *Client) TransactionTimestamp(ctx context.Context, version string) (string, error) {
	var data userTransactionsData
	err := c.query(ctx, transactionTimestampQuery, map[string]interface{}{
		"version": version,
	}, &data)
	if err != nil {
		return "", fmt.Errorf("transaction timestamp: %w", err)
	}
	if len(data.UserTransactions) == 0 {
		return "", nil
	}
	return data.UserTransactions[0].Timestamp, nil
}

// FungibleAssetBalance reads the fungible-asset store balance in base units.
// A missing balance row reads as zero.
func (c *Client) FungibleAssetBalance(ctx context.Context, owner, assetType string) (*big.Int, error) {
	var data faBalancesData
	err := c.query(ctx, fungibleAssetBalanceQuery, map[string]interface{}{
		"owner": owner,
		"asset": assetType,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("fungible asset balance: %w", err)
	}
	if len(data.Balances) == 0 {
		return big.NewInt(0), nil
	}
	amount, err := normalize.ParseBaseUnits(data.Balances[0].Amount)
	if err != nil {
		return nil, fmt.Errorf("fungible asset balance: %w", err)
	}
	return amount, nil
}
