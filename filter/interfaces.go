package filter

// Filter reports whether a file-list item should be kept.
type Filter interface {
	Evaluate(item Item) bool
}

// CompiledFilter is a Filter built from an expression string.
type CompiledFilter interface {
	Filter
	Expression() string
}

// Compiler turns expressions into CompiledFilters.
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler is a Compiler that remembers recent expressions.
type CachingCompiler interface {
	Compiler
	Clear()
	Size() int
}

// matcher is implemented by filters that surface evaluation errors
// instead of treating them as a non-match.
type matcher interface {
	Match(item Item) (bool, error)
}
