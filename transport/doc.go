// Package transport executes request descriptors against the API: it
// resolves paths, attaches headers, runs the HTTP exchange, and maps
// every outcome onto the error taxonomy in package core.
//
// The three entry points mirror the three descriptor capabilities:
//
//   - [Execute] runs a buffered JSON exchange and decodes the response.
//   - [Upload] posts a multipart payload built from a [Form].
//   - [OpenStream] opens a server-sent event stream and decodes each
//     data frame into a typed event.
//
// An [Engine] is immutable after construction; one instance serves any
// number of concurrent calls.
package transport
