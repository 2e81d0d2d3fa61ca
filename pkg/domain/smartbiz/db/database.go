package db

import (
	"context"

	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	kschema "github.com/smartbiz-gst/smartbiz/pkg/domain/schema/db"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
)

// Database is the entrance to every repository of this system.
type Database interface {
	Users() kuser.UserInterface
	QuickAdds() kquickadd.QuickAddInterface
	Schema() kschema.SchemaInterface

	// Ping checks the database is reachable.
	Ping(context.Context) error
	Close() error
}
