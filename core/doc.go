// Package core defines the contracts shared by every API surface in
// skiff: the request descriptor interfaces, the closed error taxonomy
// with its retry metadata, the retry policy, and supporting value types
// such as Secret and Timestamp.
//
// The transport package consumes these contracts to execute requests;
// user-facing request and response types live with their API surface in
// the root package. Application code usually touches core only to
// classify errors:
//
//	var apiErr *core.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == core.KindRateLimited {
//		// back off
//	}
package core
