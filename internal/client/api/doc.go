// Package api is the Drift Desk REST client.
//
// # Overview
//
// Client wraps a single resty client configured with the API base URL and
// JSON headers. Every request:
//  1. carries "Authorization: Bearer <token>" when the TokenSource holds a
//     token, plus an X-Request-ID;
//  2. is issued exactly once, with no retries and no caching;
//  3. on failure returns a *Error whose Message is always non-empty.
//
// A 401 from any endpoint invokes the handler registered with
// OnUnauthorized before the error reaches the caller.
//
// # Resources
//
// Resource clients (Auth, Users, Drifts, Comments, Notifications, Health)
// expose one method per endpoint and return decoded models.
//
// # Errors
//
// *Error matches ErrUnauthorized, ErrNotFound and ErrNetwork with
// errors.Is.
package api
