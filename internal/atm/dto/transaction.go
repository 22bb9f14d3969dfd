package dto

type AmountInput struct {
	Amount int64 `json:"amount"`
}

type TransactionOutput struct {
	Amount  int64 `json:"amount"`
	Balance int64 `json:"balance"`
}

type BalanceOutput struct {
	Balance int64 `json:"balance"`
	Debt    int64 `json:"debt"`
}

type HistoryOutput struct {
	History []string `json:"history"`
}
