package db

import (
	"context"

	"github.com/kevintatou/sparktest/pkg/domain"
)

type DefinitionInterface interface {
	// List returns definitions, newest first.
	//
	// Args
	//
	// - labels: if not empty, definitions having any of them are returned.
	List(ctx context.Context, labels []string) ([]domain.Definition, error)

	// Get returns the definition.
	//
	// Returns
	//
	// - error: ErrMissing when no definitions have the id.
	Get(ctx context.Context, id string) (domain.Definition, error)

	// Create registers a new definition. Id should be set by the caller.
	//
	// Returns
	//
	// - error: ErrConflict when the id or the source is used,
	// ErrMissing when the executor is not found.
	Create(ctx context.Context, d domain.Definition) (domain.Definition, error)

	// Update changes the definition.
	//
	// Returns
	//
	// - domain.Definition: updated one.
	//
	// - error: ErrMissing when no definitions have the id, or the new executor is not found.
	// ErrConflict when the new source is used by another definition.
	Update(ctx context.Context, id string, change domain.DefinitionChange) (domain.Definition, error)

	// Delete removes the definition. Runs of the definition lose their definition id.
	//
	// Returns
	//
	// - error: ErrMissing when no definitions have the id.
	Delete(ctx context.Context, id string) error

	// UpsertBySource registers d, or updates the definition having the same source.
	//
	// On update, name, image, commands, description and labels are overwritten,
	// and id, executor and created_at are kept.
	//
	// Returns
	//
	// - domain.Definition: the definition as stored.
	//
	// - bool: true if it is created.
	//
	// - error
	UpsertBySource(ctx context.Context, d domain.Definition) (domain.Definition, bool, error)
}
