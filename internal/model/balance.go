package model

// BalanceReading holds the two independently-sourced readings for one logical
// asset during the coin → fungible-asset migration, plus the reconciled total.
// CoinBalance and FABalance are decimal strings in base units (octas);
// TotalBalance is base units after reconciliation, Display is whole tokens.
type BalanceReading struct {
	CoinBalance  string  `json:"coin_balance"`
	FABalance    string  `json:"fa_balance"`
	TotalBalance string  `json:"total_balance"`
	Display      float64 `json:"display"`
}
