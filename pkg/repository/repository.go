package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/garnizeh/portfolio/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

var (
	// ErrNotFound is returned when a document or operator does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCollection is returned for collection names outside models.Collections.
	ErrUnknownCollection = errors.New("unknown collection")
)

// StoreError wraps a transport or storage failure of a store operation.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DocumentStore is the document database the sections read from and write to.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]models.Document, error)
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	Create(ctx context.Context, collection string, fields models.Fields) (string, error)
	// Update overwrites every field of the document.
	Update(ctx context.Context, collection, id string, fields models.Fields) error
	Delete(ctx context.Context, collection, id string) error
	SetSingleton(ctx context.Context, collection, key string, fields models.Fields) error
}

type OperatorRepo interface {
	CreateOperator(ctx context.Context, o *models.Operator) (int64, error)
	GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
	UpdateOperator(ctx context.Context, o *models.Operator) error
}
