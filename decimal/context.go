// Package decimal implements attestor's exact-decimal numeric kernel: a
// process-wide fixed-precision decimal context plus pure-decimal exp, ln,
// sqrt, and expm1_neg with guard-digit range reduction. No floating point
// appears anywhere in this package or in any domain code built on top of
// it.
package decimal

import (
	"sync"

	"github.com/cockroachdb/apd/v3"
)

const (
	// DefaultPrecision is the output precision all financial arithmetic
	// executes at: 28 significant digits, banker's rounding.
	DefaultPrecision = 28

	// GuardDigits is added on top of the working precision when a
	// transcendental needs intermediate headroom.
	GuardDigits = 10

	// InternalPrecision is the precision transcendentals compute at
	// internally before quantizing back down to the caller's context.
	InternalPrecision = 38

	// MaxSeriesIterations bounds every series-evaluation loop in this
	// package; exceeding it is a DomainError, never an infinite loop.
	MaxSeriesIterations = 200
)

// Context is attestor's decimal configuration: a fixed precision, a
// rounding mode, and a set of trapped conditions. The zero value is not
// valid — use NewContext or Global.
type Context struct {
	precision uint32
	rounding  string
	traps     apd.Condition
}

// NewContext builds a Context at the given precision with banker's
// rounding and InvalidOperation/DivisionByZero/Overflow trapped, matching
// spec §3's decimal-context invariants.
func NewContext(precision uint32) *Context {
	return &Context{
		precision: precision,
		rounding:  apd.RoundHalfEven,
		traps:     apd.InvalidOperation | apd.DivisionByZero | apd.Overflow,
	}
}

// Precision returns the context's working precision.
func (c *Context) Precision() uint32 { return c.precision }

// apdContext constructs the underlying apd.Context for one operation.
func (c *Context) apdContext() *apd.Context {
	return &apd.Context{
		Precision:   c.precision,
		Rounding:    c.rounding,
		MaxExponent: apd.MaxExponent,
		MinExponent: apd.MinExponent,
		Traps:       c.traps,
	}
}

// withPrecision returns a copy of c at a different precision, preserving
// rounding mode and traps — used to enter the elevated internal precision
// transcendentals compute at.
func (c *Context) withPrecision(p uint32) *Context {
	return &Context{precision: p, rounding: c.rounding, traps: c.traps}
}

var (
	globalMu  sync.RWMutex
	globalCtx = NewContext(DefaultPrecision)
)

// Global returns the current process-wide decimal context.
func Global() *Context {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalCtx
}

// Acquire installs c as the process-wide context for the duration of a
// computation and returns a release function that restores the previous
// context. Callers must invoke release on every exit path (typically via
// `defer`) — this is the scoped-acquisition pattern spec §5 requires so
// that no thread-local or permanent mutation of the shared decimal
// configuration leaks past the computation that needed it.
func Acquire(c *Context) (ctx *Context, release func()) {
	globalMu.Lock()
	prev := globalCtx
	globalCtx = c
	globalMu.Unlock()
	return c, func() {
		globalMu.Lock()
		globalCtx = prev
		globalMu.Unlock()
	}
}
