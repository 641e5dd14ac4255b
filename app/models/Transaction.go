package models

import "time"

// BankIndex stands in for the bank as sender or recipient of a transaction.
const BankIndex = -1

type Transaction struct {
	ID             string    `json:"id"`
	SenderIndex    int       `json:"senderIndex"`
	RecipientIndex int       `json:"recipientIndex"`
	SenderID       string    `json:"senderId,omitempty"`
	RecipientID    string    `json:"recipientId,omitempty"`
	Amount         int64     `json:"amount"`
	Description    string    `json:"description"`
	Timestamp      time.Time `json:"timestamp"`
}

// Involves reports whether the player index is either side of t.
func (t Transaction) Involves(idx int) bool {
	return t.SenderIndex == idx || t.RecipientIndex == idx
}
