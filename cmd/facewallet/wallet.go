package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/facewallet/facewallet/pkg/identity"
	"github.com/facewallet/facewallet/pkg/wallet"
)

func newWalletService(ids identity.Store) (*wallet.Service, error) {
	ledger, err := wallet.NewFileLedger(cfg.LedgerFile())
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return wallet.NewService(ids, ledger), nil
}

func cmdUsers(args []string) error {
	ctx := context.Background()

	ids, err := openIdentityStore()
	if err != nil {
		return err
	}

	list, err := ids.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No accounts registered yet.")
		return nil
	}

	fmt.Printf("%-24s %-28s %-12s %s\n", "NAME", "EMAIL", "BALANCE", "FACE")
	for _, id := range list {
		face := "enrolled"
		switch id.FaceData.Kind() {
		case identity.TemplateNone:
			face = "none"
		case identity.TemplateLegacy:
			face = "legacy"
		}
		fmt.Printf("%-24s %-28s %-12s %s\n", id.FullName, id.Email, formatAmount(id.Balance), face)
	}
	return nil
}

func cmdSend(args []string) error {
	ctx := context.Background()

	if len(args) != 3 {
		return fmt.Errorf("usage: facewallet send <from-email> <to-email> <amount>")
	}
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	ids, err := openIdentityStore()
	if err != nil {
		return err
	}
	svc, err := newWalletService(ids)
	if err != nil {
		return err
	}

	tx, err := svc.Transfer(ctx, args[0], args[1], amount)
	if err != nil {
		return err
	}

	fmt.Printf("Sent %s from %s to %s (transaction %s)\n",
		formatAmount(tx.Amount), tx.SenderEmail, tx.RecipientEmail, tx.ID)
	return nil
}

func cmdHistory(args []string) error {
	ctx := context.Background()

	if len(args) != 1 {
		return fmt.Errorf("usage: facewallet history <email>")
	}
	email := args[0]

	ids, err := openIdentityStore()
	if err != nil {
		return err
	}
	svc, err := newWalletService(ids)
	if err != nil {
		return err
	}

	balance, err := svc.Balance(ctx, email)
	if err != nil {
		return err
	}
	txs, err := svc.History(ctx, email)
	if err != nil {
		return err
	}

	fmt.Printf("Balance: %s\n", formatAmount(balance))
	if len(txs) == 0 {
		fmt.Println("No transactions yet.")
		return nil
	}

	for _, tx := range txs {
		direction := "to  "
		other := tx.RecipientEmail
		sign := "-"
		if strings.EqualFold(tx.RecipientEmail, email) {
			direction = "from"
			other = tx.SenderEmail
			sign = "+"
		}
		fmt.Printf("%s  %s%-10s %s %-28s %s\n",
			tx.Date.Local().Format("2006-01-02 15:04"),
			sign, formatAmount(tx.Amount), direction, other, tx.Status)
	}
	return nil
}

// formatAmount renders minor units as a decimal currency string.
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}

// parseAmount converts a decimal amount like "12.50" to minor units.
func parseAmount(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(s), ".")
	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || major < 0 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var cents int64
	if hasFrac {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q: at most two decimal places", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	return major*100 + cents, nil
}
