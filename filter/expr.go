package filter

import (
	"maps"
	"path"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Size units usable in expressions, e.g. Size > 10 * MB
const (
	KB = int64(1) << 10
	MB = KB << 10
	GB = MB << 10
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "nothing to compile",
			Err:        ErrEmptyExpression,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(createEnvironment(c.helperFuncs, Item{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Match evaluates the filter against an item
func (f *exprFilter) Match(item Item) (bool, error) {
	result, err := expr.Run(f.program, createEnvironment(f.helpers, item))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ItemURI:    item.URI,
			Err:        err,
		}
	}
	// AsBool guarantees the type
	return result.(bool), nil
}

// Evaluate reports whether the item matches; evaluation errors count as no match
func (f *exprFilter) Evaluate(item Item) bool {
	ok, err := f.Match(item)
	return err == nil && ok
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions
func createHelperFunctions() map[string]any {
	env := make(map[string]any, 16)

	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	env["now"] = time.Now

	// String helpers. Case-insensitive, and named apart from the
	// contains/startsWith/endsWith operators expr reserves.
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["glob"] = func(pattern, name string) bool {
		ok, _ := path.Match(pattern, name)
		return ok
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	env["KB"] = KB
	env["MB"] = MB
	env["GB"] = GB

	return env
}

// createEnvironment builds the evaluation environment for one item
func createEnvironment(helpers map[string]any, item Item) map[string]any {
	env := make(map[string]any, len(helpers)+10)
	maps.Copy(env, helpers)

	env["Item"] = item
	env["URI"] = item.URI
	env["Name"] = item.Name()
	env["Ext"] = strings.TrimPrefix(path.Ext(item.URI), ".")
	env["Size"] = item.Size
	env["LastModified"] = item.LastModified
	env["Folder"] = item.Folder
	env["SHA1"] = item.SHA1
	env["SHA256"] = item.SHA256

	return env
}
