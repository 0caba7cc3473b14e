// Package history records completed deliveries in a SQLite database so the
// CLI can answer "what did I fetch, and at which tier" after the fact.
package history
