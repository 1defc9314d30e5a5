// Package api implements a typed HTTP client for the NexusFest backend.
//
// # Overview
//
// Each backend operation is one Client method that turns typed parameters into
// a single HTTP request and the response into a typed result:
//
//   - ListEvents / ListEventsByTag: GET /events/
//   - GetEvent: GET /events/{id}/ (404 yields a nil event, not an error)
//   - ListThreads: GET /threads/?event_id=&include_entry_count=true
//   - CreateThread: POST /threads/
//   - ListEntries / ListEntriesAfter: GET /entries/?thread_id=&order_by=timestamp&direction=asc
//   - CreateEntry: POST /entries/
//   - SecurePublicAgent, FetchPrivateAgent, SecurePrivateAgent: POST /agents/...
//   - Login, Register, Logout: POST {auth base}/auth/...
//
// # Status Handling
//
// Read operations check the status code: a non-2xx response fails with a
// *RequestFailedError, which matches ErrRequestFailed.
//
// Mutating operations do not check the status code. They always return a
// *Reply holding the status, the raw JSON body and a best-effort decoding of
// it, so callers see server error bodies unfiltered. WithStrictStatus makes
// them fail with *RequestFailedError on non-2xx instead.
//
// A body that is not valid JSON fails with a *ParseError (ErrParseFailure)
// on every operation.
//
// # Validation
//
// Responses are decoded but not validated by default. WithValidation enables
// structural checks (required identifiers and fields) on successful responses;
// failures match ErrInvalidPayload.
//
// # Usage
//
//	client := api.New("http://localhost:8000", api.WithLogger(logger))
//	event, err := client.GetEvent(ctx, "12")
//	if err != nil { ... }
//	if event == nil { ... } // not found
package api
