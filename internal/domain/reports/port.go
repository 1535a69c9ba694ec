package reports

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a report does not exist for the owner.
var ErrNotFound = errors.New("report not found")

// Repository port for persisting and querying reports. Every query is scoped
// to the owner.
type Repository interface {
	Insert(ctx context.Context, r *Report) error
	ListByOwner(ctx context.Context, ownerID string, f ListFilter) ([]*Report, error)
	Get(ctx context.Context, ownerID string, id ReportID) (*Report, error)
	Delete(ctx context.Context, ownerID string, id ReportID) error
}

// Archive keeps a copy of report bodies outside the database.
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
