// Package pass implements the §4.3 pass framework and its six ASR
// rewrites: array-op-to-loop, select-case-to-if-chain, do-loop lowering,
// FMA recognition, unused-function elimination, and wrap-global-statements.
package pass

import "fortasr/internal/asr"

// Pass is one ASR-to-ASR rewrite. Run mutates u (and the symbol tables it
// owns) in place.
type Pass interface {
	Name() string
	Run(u *asr.TranslationUnit) error
}

// ctx carries the per-run scratch state every pass needs: a way to mint
// fresh loop-index-style temporaries with unique names.
type ctx struct {
	u       *asr.TranslationUnit
	counter int
}

func (c *ctx) freshName(prefix string) string {
	c.counter++
	return prefix + "__" + itoa(c.counter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// DefaultOrder is the fixed pass sequence §5 mandates: array-op must run
// before select-case can safely assume scalar operands inside case tests;
// do-loop lowering runs after select-case so generated while-loops are not
// re-expanded; FMA runs last among rewrites since it only ever tightens an
// existing BinOp chain; unused-function elimination runs last of all so it
// sees every call site the rewrites above may have introduced or removed.
//
// SelectCaseToIfChain runs once: it recurses into every arm body before
// rewriting the arm's own Select node, so a nested Select is already an
// if-chain by the time its enclosing Select is converted. Running it twice
// (as some implementations do to "catch" nested selects) is unnecessary
// once the walk is single-pass-complete, and violates idempotence.
func DefaultOrder() []Pass {
	return []Pass{
		&ArrayOpToLoop{},
		&SelectCaseToIfChain{},
		&DoLoopLowering{},
		&FMARecognition{},
		&UnusedFunctionElimination{},
	}
}

// Run executes passes in order, returning the first error encountered.
func Run(u *asr.TranslationUnit, passes []Pass) error {
	for _, p := range passes {
		if err := p.Run(u); err != nil {
			return err
		}
	}
	return nil
}
