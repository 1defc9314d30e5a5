// Package session tracks the logged-in user for a client and performs logout.
//
// The user record is held in an observable.Persisted store under the
// "nexus_user" key, so it survives restarts when a storage medium is
// configured and is removed from storage entirely on logout.
//
// Logout is best effort on the network side: it revokes the API key when
// there is one, logs any failure, and always clears the user and navigates to
// the login path.
package session
