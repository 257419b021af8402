// Package client talks to the Desa Bantuin backend.
//
// # Overview
//
// The package provides a transport-agnostic contract (Client) covering the
// only remote exchange the app performs, login and registration, plus a
// liveness probe. HTTPClient implements it with JSON over HTTP against
// <base>/login and <base>/register.
//
// # Error Handling
//
//   - ErrUnavailable: the request never got an answer (DNS, refused, timeout).
//   - *APIError: the server answered with a non-2xx status or success=false;
//     Message carries the server's explanation for display.
//   - ErrMalformedResponse: a 2xx answer that cannot be used.
//
// All operations accept context.Context and honor cancellation.
package client
