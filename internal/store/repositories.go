package store

import "github.com/MKhiriev/gesture-sense/internal/logger"

// Repositories groups every repository built on one database connection.
type Repositories struct {
	UserRepository UserRepository
}

func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository: NewUserRepository(db, logger),
	}
}
