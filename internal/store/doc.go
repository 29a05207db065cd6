// Package store defines the persisted model and the persistence interfaces
// used by reconciliation and the read API. Implementations live in other
// packages; this package must not import database drivers or concrete
// clients.
package store
