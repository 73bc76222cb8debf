package router

// RouterBuilderOption is a functional option applied to a router during construction via NewRouter.
type RouterBuilderOption func(*router)

// WithLogBook sets the log feed the router writes to.
//
// Parameters:
//   - b: the log book
//
// Returns:
//   - RouterBuilderOption: a function that applies the log book option to a router
func WithLogBook(b *LogBook) RouterBuilderOption {
	return func(r *router) {
		r.logBook = b
	}
}

// WithLogCapacity creates the router's log feed with the given capacity. Ignored when WithLogBook is used.
//
// Parameters:
//   - capacity: the maximum number of entries kept
//
// Returns:
//   - RouterBuilderOption: a function that applies the log capacity option to a router
func WithLogCapacity(capacity int) RouterBuilderOption {
	return func(r *router) {
		if r.logBook == nil {
			r.logBook = NewLogBook(capacity)
		}
	}
}
