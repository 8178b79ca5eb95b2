/**
 * @description
 * Event payloads published to the message broker when a transaction's
 * lifecycle produces an externally visible fact. Publishing is fire-and-forget
 * with respect to the state machine; consumers render receipts and push
 * notifications.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferCreatedEvent is published after a transaction record is inserted.
type TransferCreatedEvent struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	SendAmount    int64           `json:"send_amount"`
	Fee           int64           `json:"fee"`
	RecipientName string          `json:"recipient_name"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TransferArrivedEvent is published when a transaction reaches its terminal
// state.
type TransferArrivedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	ReceiveAmount int64     `json:"receive_amount"`
	Currency      string    `json:"currency"`
	RecipientName string    `json:"recipient_name"`
	Timestamp     time.Time `json:"timestamp"`
}
