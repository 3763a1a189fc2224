package sema

// assignReturnNondets is the post-inference fixup for nondet expressions
// in return position. The main walk deliberately leaves them untyped:
// a nondet returned from a function is constrained by nothing except the
// declared result type, which this pass assigns wholesale. Kept separate
// from the walk so the late contextual assignment stays auditable.
func (c *checker) assignReturnNondets() {
	for _, nr := range c.nondetReturns {
		if _, done := c.recorded(nr.expr); done {
			continue
		}
		c.record(nr.expr, nr.result, nr.origin)
	}
}
