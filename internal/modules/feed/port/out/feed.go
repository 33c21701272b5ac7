package out

import "context"

// Fetcher retrieves the raw announcement page. Implementations own their own
// timeouts; failures are recoverable and surface as an empty observation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
