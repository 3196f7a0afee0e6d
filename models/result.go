package models

const (
	StatusSuccess   = "success"
	StatusUnsuccess = "Unsuccess"
)

type SendResult struct {
	Status             string         `json:"status"`
	Message            string         `json:"message"`
	TxHash             string         `json:"txHash,omitempty"`
	TransactionDetails *DraftTransfer `json:"transactionDetails,omitempty"`
}

func SuccessResult(details DraftTransfer, txHash string) SendResult {
	return SendResult{
		Status:             StatusSuccess,
		Message:            "Your transaction was successful!",
		TxHash:             txHash,
		TransactionDetails: &details,
	}
}

func UnsuccessResult() SendResult {
	return SendResult{
		Status:  StatusUnsuccess,
		Message: "Your transaction was not successful!",
	}
}
