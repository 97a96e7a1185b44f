package client

import (
	"errors"

	"github.com/ValentinKolb/aKV/lib/coalesce"
)

// ErrInvalidCell is returned for requests without a table or row.
var ErrInvalidCell = errors.New("client: table and row must not be empty")

// Cell addresses a single value: the column (family, qualifier) of a row in a table.
type Cell struct {
	Table     []byte
	Row       []byte
	Family    []byte
	Qualifier []byte
}

// NewCell creates a cell from strings.
func NewCell(table, row, family, qualifier string) Cell {
	return Cell{
		Table:     []byte(table),
		Row:       []byte(row),
		Family:    []byte(family),
		Qualifier: []byte(qualifier),
	}
}

func (c Cell) validate() error {
	if len(c.Table) == 0 || len(c.Row) == 0 {
		return ErrInvalidCell
	}
	return nil
}

func (c Cell) identity() coalesce.Identity {
	return coalesce.NewIdentity(c.Table, c.Row, c.Family, c.Qualifier)
}

// key returns the storage key of the cell.
func (c Cell) key() string {
	return c.identity().Key()
}

// IncrementRequest adds Amount to the counter stored in a cell.
type IncrementRequest struct {
	Cell
	Amount int64
	// Durable asks the store to persist the increment before acknowledging it.
	// Increments drained from the buffer are always durable.
	Durable bool
}

// NewIncrementRequest creates a durable increment request.
func NewIncrementRequest(cell Cell, amount int64) IncrementRequest {
	return IncrementRequest{Cell: cell, Amount: amount, Durable: true}
}

// PutRequest stores Value in a cell.
type PutRequest struct {
	Cell
	Value []byte
}

// GetResult is the outcome of a Get.
type GetResult struct {
	Value []byte
	Found bool
}
