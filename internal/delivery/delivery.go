// Package delivery holds the inbound adapters of the storefront.
package delivery

import "context"

// Delivery is a long-running inbound server started by the fx entrypoints.
type Delivery interface {
	Serve(ctx context.Context) error
}
