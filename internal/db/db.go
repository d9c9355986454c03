package db

import "database/sql"

// DB wraps the application database handle. It is constructed once at
// startup and passed into the services that need it.
type DB struct {
	*sql.DB
}
