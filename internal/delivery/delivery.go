// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a transport boundary (HTTP, gRPC, ...) that serves the
// application until its context ends or the fx lifecycle stops it.
type Delivery interface {
	Serve(ctx context.Context) error
}
