package dlis

// FindOptions tunes the anchor finders' read budgets. Passing no
// FindOption selects the spec-mandated defaults for whichever finder is
// being configured; callers normally have no reason to override these, but
// real-world files with unusually large preambles may need a bigger
// fallback budget than the 1,700-byte default (spec §4.2).
//
// Grounded on the functional-option pattern in the teacher's
// options.go/readeroptions.go (a private options struct, a typed
// constructor function, With... constructors that close over it) rather
// than a public struct literal, so new tunables can be added later
// without breaking callers.
type FindOptions struct {
	minRead int
	maxRead int
}

// FindOption configures a FindOptions.
type FindOption func(*FindOptions)

// WithMinRead overrides the fast-path read size (spec §4.2/§4.3's
// MIN_READ).
func WithMinRead(n int) FindOption {
	return func(o *FindOptions) { o.minRead = n }
}

// WithMaxRead overrides the fallback read size (spec §4.2/§4.3's
// MAX_READ).
func WithMaxRead(n int) FindOption {
	return func(o *FindOptions) { o.maxRead = n }
}

func newFindOptions(defaultMin, defaultMax int, opts ...FindOption) FindOptions {
	o := FindOptions{minRead: defaultMin, maxRead: defaultMax}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
