package gate

import "context"

// Policy holds resource-specific rules, typically ownership.
// For list/create checks resource may be nil.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}
