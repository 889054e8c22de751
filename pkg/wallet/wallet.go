// Package wallet holds the small balance/transfer layer behind the
// authenticated screens: balance arithmetic plus transaction records linked
// by sender and recipient email.
package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/logging"
)

// Transaction records one completed transfer. Amounts are in minor units.
type Transaction struct {
	ID             string    `json:"id"`
	SenderEmail    string    `json:"senderEmail"`
	RecipientEmail string    `json:"recipientEmail"`
	Amount         int64     `json:"amount"`
	Date           time.Time `json:"date"`
	Status         string    `json:"status"`
}

// ErrInvalidAmount is returned for zero or negative transfer amounts.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInsufficientFunds is returned when the sender's balance cannot cover
// the transfer.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSelfTransfer is returned when sender and recipient are the same account.
var ErrSelfTransfer = errors.New("cannot transfer to the same account")

// Ledger records completed transactions.
type Ledger interface {
	Append(ctx context.Context, tx Transaction) error
	History(ctx context.Context, email string) ([]Transaction, error)
}

// Service moves balance between identities and records the movement.
type Service struct {
	ids    identity.Store
	ledger Ledger
}

// NewService wires the wallet service.
func NewService(ids identity.Store, ledger Ledger) *Service {
	return &Service{ids: ids, ledger: ledger}
}

// Transfer moves amount from sender to recipient, both addressed by email.
// Balances never go below zero; a failed transfer leaves both untouched.
func (s *Service) Transfer(ctx context.Context, senderEmail, recipientEmail string, amount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	sender, err := s.ids.FindByEmail(ctx, senderEmail)
	if err != nil {
		return Transaction{}, err
	}
	recipient, err := s.ids.FindByEmail(ctx, recipientEmail)
	if err != nil {
		return Transaction{}, err
	}
	if sender.ID == recipient.ID {
		return Transaction{}, ErrSelfTransfer
	}
	if sender.Balance < amount {
		return Transaction{}, ErrInsufficientFunds
	}

	sender.Balance -= amount
	recipient.Balance += amount
	if err := s.ids.Update(ctx, sender); err != nil {
		return Transaction{}, err
	}
	if err := s.ids.Update(ctx, recipient); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:             uuid.NewString(),
		SenderEmail:    sender.Email,
		RecipientEmail: recipient.Email,
		Amount:         amount,
		Date:           time.Now().UTC(),
		Status:         "completed",
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		logging.Component("wallet").WithError(err).Warn("Transfer completed but could not be recorded")
	}
	return tx, nil
}

// Balance returns the identity's current balance.
func (s *Service) Balance(ctx context.Context, email string) (int64, error) {
	id, err := s.ids.FindByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return id.Balance, nil
}

// History returns the transactions the email participated in.
func (s *Service) History(ctx context.Context, email string) ([]Transaction, error) {
	return s.ledger.History(ctx, email)
}
