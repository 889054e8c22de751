package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type memoryLedger struct {
	mu  sync.RWMutex
	txs []Transaction
}

// NewMemoryLedger builds an in-memory ledger for tests.
func NewMemoryLedger() Ledger {
	return &memoryLedger{}
}

func (l *memoryLedger) Append(_ context.Context, tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = append(l.txs, tx)
	return nil
}

func (l *memoryLedger) History(_ context.Context, email string) ([]Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	want := strings.ToLower(strings.TrimSpace(email))
	var out []Transaction
	for _, tx := range l.txs {
		if strings.ToLower(tx.SenderEmail) == want || strings.ToLower(tx.RecipientEmail) == want {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FileLedger appends transactions to a JSON-lines file.
type FileLedger struct {
	path string
	mu   sync.Mutex
}

// NewFileLedger creates the ledger file's directory if needed.
func NewFileLedger(path string) (*FileLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}
	return &FileLedger{path: path}, nil
}

// Append writes one transaction as a JSON line.
func (l *FileLedger) Append(_ context.Context, tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// History scans the file for transactions involving the email.
func (l *FileLedger) History(_ context.Context, email string) ([]Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	want := strings.ToLower(strings.TrimSpace(email))
	var out []Transaction
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal([]byte(line), &tx); err != nil {
			continue
		}
		if strings.ToLower(tx.SenderEmail) == want || strings.ToLower(tx.RecipientEmail) == want {
			out = append(out, tx)
		}
	}
	return out, nil
}
