package dto

// TransferInput drives the two-phase transfer protocol. NewAccountPin
// is only consulted when the target account does not exist yet and
// has to be created as part of the transfer.
type TransferInput struct {
	Target        string `json:"target"`
	Amount        int64  `json:"amount"`
	NewAccountPin string `json:"new_account_pin,omitempty"`
}

type TransferOutput struct {
	Transferred int64 `json:"transferred"`
	Balance     int64 `json:"balance"`
	Debt        int64 `json:"debt"`
	DebtCreated int64 `json:"debt_created,omitempty"`
}
