// Package services implements the hosted-backend boundary clients the upload
// pipeline depends on: authentication, object storage, and the record store.
//
// # Interfaces
//
// The core consumes three narrow contracts so tests can substitute in-memory
// fakes:
//   - [SessionProvider] : resolves the current owner id and access token
//   - [ObjectStore] : uploads binary payloads and returns public locators
//   - [RecordStore] : exact-match lookups, inserts, and deletes for the
//     Artist, Album, and Track record kinds, each scoped by owner
//
// # Implementations
//
// All three are thin HTTP clients against a Supabase project:
//   - [AuthService] : GoTrue password-grant sign-up/sign-in/sign-out with the
//     session persisted to disk; tokens are held as [oauth2.Token] values so
//     expiry checks come for free
//   - [StorageService] : Storage API uploads under
//     {owner}/{id}.{ext} and {owner}/covers/{id}.jpg, public URL derivation,
//     and batch removal
//   - [RecordsService] : PostgREST queries with a shared [rate.Limiter]
//     bounding request throughput
//
// # Error Handling
//
// Clients use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no resolvable owner id at call time
//   - [shared.ErrRemoteRequest] : a storage or query call was rejected
//   - [shared.ErrAuthFailed] : credential sign-in rejected by GoTrue
package services
