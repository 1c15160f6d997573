// Package media abstracts the external media store. The enforcement engine
// only ever deletes; uploads happen elsewhere.
package media

import "context"

type Store interface {
	// Delete removes one stored object. A failure is non-fatal to callers:
	// the enforcement pass logs and skips it.
	Delete(ctx context.Context, storageKey string) error
}
