package db

import "context"

// SchemaInterface represents the schema of the database.
type SchemaInterface interface {
	// Upgrade applies schema versions newer than the one in the database.
	Upgrade(ctx context.Context) error

	// Version returns the schema version recorded in the database.
	//
	// It is 0 for a database never upgraded.
	Version(ctx context.Context) (int, error)

	// Latest returns the newest version in the schema repository.
	Latest() (int, error)

	// Drop removes every table and function of the schema.
	Drop(ctx context.Context) error
}
