// Package session implements the client-side session core for My Book
// Connect: a single source of truth for the authenticated state of a running
// client, the persistence of its bearer token, and the routing decisions that
// depend on both.
//
// Session lifecycle:
//   - A Manager owns exactly one Snapshot at a time. Snapshots move through
//     anonymous, authenticating, profile-loading, and authenticated states;
//     the transition table lives in the state machine and every commit is
//     checked against it. Operations either commit a complete new snapshot or
//     leave the previous one untouched.
//   - Login, Register, Logout, and UpdateProfile are the only writers.
//     Credential operations are serialized: a second Login or Register while
//     one is in flight fails fast with ErrBusy instead of interleaving
//     commits.
//   - A backend rejection of the bearer token (Unauthorized) from any
//     authenticated call forces the session back to anonymous and clears the
//     persisted token.
//
// Token persistence:
//   - TokenStore abstracts the durable copy of the bearer token under the
//     auth-storage key. Implementations for files, SQLite, and Redis live in
//     the store subpackage; storage failures never break the in-memory
//     session, which stays authoritative for the current process.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter describing login, logout,
//     rehydration, and profile events. Sinks run best-effort (errors are
//     logged) so you can forward to telemetry without blocking the UI.
package session
