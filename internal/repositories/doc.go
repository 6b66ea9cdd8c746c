// Package repositories implements the SQLite fixture source.
//
// The fixture source serves the same page boundary as the HTTP API from a
// local database, so the cache and list engine can be exercised offline.
// [FixtureRepository] implements the remote source interface consumed by the
// list engine; [Migrate] and [Seed] prepare a demo database.
package repositories
