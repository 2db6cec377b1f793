// Package migrations registers every schema migration. Importing it for
// side effects is enough; cmd/liftstore does that.
package migrations
