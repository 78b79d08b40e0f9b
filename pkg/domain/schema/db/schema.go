package db

import "context"

// SchemaInterface represents a database schema.
type SchemaInterface interface {
	// Upgrade applies versions in the schema repository which are newer than the database.
	Upgrade(ctx context.Context) error

	// Version returns the current version of the schema in the database.
	//
	// It is 0 when no versions have been applied.
	Version(ctx context.Context) (int, error)

	// Context returns a context which is cancelled when the schema in database gets older than
	// the schema repository.
	//
	// Args
	//
	// - ctx: The parent context.
	//
	// Returns
	//
	// - context.Context: cancelled when the schema is outdated, with the cause.
	//
	// - context.CancelFunc: releases resources for watching the schema repository.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
