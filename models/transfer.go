package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TransferRecord is one entry of the ledger's transfer log as shown to the UI.
type TransferRecord struct {
	AddressTo   string    `json:"addressTo"`
	AddressFrom string    `json:"addressFrom"`
	Timestamp   string    `json:"timestamp"` // уже в локальном формате отображения
	Message     string    `json:"message"`
	Keyword     string    `json:"keyword"`
	Amount      float64   `json:"amount"`
	SentAt      time.Time `json:"-"`
}

// RawTransfer mirrors the contract's TransferStruct tuple, field order included.
type RawTransfer struct {
	Sender    common.Address
	Receiver  common.Address
	Amount    *big.Int
	Message   string
	Timestamp *big.Int
	Keyword   string
}

type TxRequest struct {
	From  string
	To    string
	Gas   uint64
	Value *big.Int
	Data  []byte
}
