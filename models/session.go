package models

type SessionState string

const (
	StateDisconnected  SessionState = "disconnected"
	StateConnectedIdle SessionState = "connected_idle"
	StateSubmitting    SessionState = "submitting"
	StateConfirming    SessionState = "confirming"
)

// Storage keys shared with the browser-era layout.
const (
	KeyTransactionCount = "transactionCount"
	KeyWalletConnected  = "walletConnected"
	KeyToken            = "token"
)

// Snapshot is the value handed to UI consumers.
type Snapshot struct {
	SessionID        string           `json:"sessionId"`
	State            SessionState     `json:"state"`
	CurrentAccount   string           `json:"currentAccount"`
	IsLoading        bool             `json:"isLoading"`
	TransactionCount string           `json:"transactionCount"`
	Transactions     []TransferRecord `json:"transactions"`
	FormData         DraftTransfer    `json:"formData"`
}
