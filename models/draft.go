package models

import "github.com/pkg/errors"

const (
	DraftAddressTo = "addressTo"
	DraftAmount    = "amount"
	DraftKeyword   = "keyword"
	DraftMessage   = "message"
)

type DraftTransfer struct {
	AddressTo string `json:"addressTo"`
	Amount    string `json:"amount"` // десятичная строка, например "1.5"
	Keyword   string `json:"keyword"`
	Message   string `json:"message"`
}

type DraftEdit struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// With returns a copy of d with the named field replaced.
func (d DraftTransfer) With(name, value string) (DraftTransfer, error) {
	switch name {
	case DraftAddressTo:
		d.AddressTo = value
	case DraftAmount:
		d.Amount = value
	case DraftKeyword:
		d.Keyword = value
	case DraftMessage:
		d.Message = value
	default:
		return d, errors.Wrapf(ErrUnknownDraftField, "%q", name)
	}
	return d, nil
}
