// Package store wraps bun queries behind small repository types. Services
// depend on the interfaces they declare, not on these structs, so tests can
// substitute fakes without a database.
package store

import (
	"github.com/uptrace/bun"
)

// Store bundles the repositories over one bun handle.
type Store struct {
	Users       *UserStore
	Connections *ConnectionStore
	Health      *HealthStore
	Activities  *ActivityStore
	Work        *WorkStore
	Prefs       *PrefStore
}

func New(db bun.IDB) *Store {
	return &Store{
		Users:       &UserStore{db: db},
		Connections: &ConnectionStore{db: db},
		Health:      &HealthStore{db: db},
		Activities:  &ActivityStore{db: db},
		Work:        &WorkStore{db: db},
		Prefs:       &PrefStore{db: db},
	}
}
