// Package id provides the account and transaction ID sources used by
// the bank. Generators are injected, never global, so tests can use a
// deterministic sequence instead of resetting shared state.
package id

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator issues identifiers that are unique for the lifetime of the
// process. Implementations must be safe for concurrent use.
type Generator interface {
	AccountID() string
	TransactionID() string
}

// UUIDGenerator issues random UUID-backed identifiers.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) AccountID() string {
	return "ACC-" + uuid.New().String()
}

func (g *UUIDGenerator) TransactionID() string {
	return "TXN-" + uuid.New().String()
}

// SequentialGenerator issues zero-padded sequential identifiers
// (ACC-00000001, TXN-000000000001). Deterministic, for tests.
type SequentialGenerator struct {
	accounts     atomic.Int64
	transactions atomic.Int64
}

func NewSequentialGenerator() *SequentialGenerator {
	return &SequentialGenerator{}
}

func (g *SequentialGenerator) AccountID() string {
	return fmt.Sprintf("ACC-%08d", g.accounts.Add(1))
}

func (g *SequentialGenerator) TransactionID() string {
	return fmt.Sprintf("TXN-%012d", g.transactions.Add(1))
}
