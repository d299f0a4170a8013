package repository

import (
	"gorm.io/gorm"
)

// Factory wires all repository implementations to one database handle.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// NewRepositories creates all repository instances bound to the given handle.
// Pass a transaction handle to get transaction-scoped repositories.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Account:      NewAccountRepository(db),
		Resource:     NewResourceRepository(db),
		NotifyConfig: NewNotifyConfigRepository(db),
	}
}

// GetRepositories returns repositories bound to the factory's handle.
func (f *Factory) GetRepositories() *Repositories {
	return NewRepositories(f.db)
}

// Transaction runs fn with transaction-scoped repositories. All repository
// calls inside fn commit together or not at all.
func (f *Factory) Transaction(fn func(tx *Repositories) error) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
