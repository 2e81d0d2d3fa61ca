// Package postgres holds the schema repository of the database.
//
// Each numbered directory is one schema version.
// SQL files in a version are applied in lexical order.
package postgres

import "embed"

//go:embed [0-9]*
var Repository embed.FS
