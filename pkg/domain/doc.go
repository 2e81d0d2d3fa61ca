// Package domain contains the domain models of SmartBiz.
//
// `domain/ENTITY.go` has high-level entities and functions on them.
// For example, `domain/quickadd.go` contains the `QuickAdd` entity.
//
// `domain/ENTITY/db` exposes the interface to handle the entity in the database,
// and `domain/ENTITY/db/postgres` implements it.
//
// # Entities
//
// - `user`: accounts of shopkeepers, buyers and admins.
// They sign in with email and password and act with a bearer token.
//
// - `quickadd`: short-lived product listings posted by users.
// A listing is created as pending, approved by an external workflow, expires after its
// duration, and is purged 30 days after expiry (done by "sweeps").
// Listings count views and likes.
//
// - `schema`: versions of the database schema.
package domain
