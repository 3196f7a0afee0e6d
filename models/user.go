package models

type UpdateAddressInput struct {
	EthereumAddress string `json:"ethereumAddress"`
}
