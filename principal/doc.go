// Package principal owns the durable identity records that credentials resolve to.
//
// A [Principal] is identified by an opaque UUID and looked up either by ID (auth
// gate) or by phone number (login-code and login flows). Credential records never
// duplicate principal data; they only carry the ID.
//
// Two [Store] implementations are provided: [MemoryStore] for tests and embedded
// use, and [GormStore] for SQLite or Postgres through gorm.
package principal
