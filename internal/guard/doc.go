// Package guard provides a guarded region: a body, ordered typed handlers
// and a cleanup that runs on every exit path.
//
// A body reports a fault either by returning an error or by panicking with
// a runtime error. Panics are recovered and classified with fault.FromPanic,
// so a division by zero inside the body arrives at the handlers as an
// ArithmeticFault.
//
// # Basic Usage
//
//	err := guard.Try(func() error {
//	    b := 10 / a
//	    _ = b
//	    return nil
//	}).Catch(fault.KindArithmetic, func(err error) error {
//	    fmt.Println("Divide by 0:", err)
//	    return nil // resolved
//	}).Finally(func() {
//	    fmt.Println("cleanup")
//	}).Run()
//
// # Handler Order
//
// Handlers are checked in the order they are declared, and the first one
// whose kind equals or is an ancestor of the fault's kind wins. A handler
// declared after a broader one can never fire, so Run rejects such a
// region with ErrUnreachableHandler before running anything.
//
// # Propagation
//
// A handler's return value becomes the region's result: nil resolves the
// fault, the same error rethrows it, a different error replaces it. A fault
// no handler matches is returned unchanged.
package guard
