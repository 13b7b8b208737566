package guard

import (
	"errors"
	"strings"
	"testing"

	"faultdemo/internal/fault"
)

type recorder struct {
	raised   int
	handled  int
	cleanups int
}

func (r *recorder) Raised(error)  { r.raised++ }
func (r *recorder) Handled(error) { r.handled++ }
func (r *recorder) Cleanup()      { r.cleanups++ }

func TestRunNormalCompletion(t *testing.T) {
	var steps []string

	err := Try(func() error {
		steps = append(steps, "body")
		return nil
	}).Catch(fault.KindAny, func(err error) error {
		steps = append(steps, "handler")
		return nil
	}).Finally(func() {
		steps = append(steps, "cleanup")
	}).Run()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(steps, ","); got != "body,cleanup" {
		t.Errorf("expected body,cleanup, got %s", got)
	}
}

func TestRunRecoversRuntimePanic(t *testing.T) {
	zero := 0
	var caught error

	err := Try(func() error {
		_ = 10 / zero
		return nil
	}).Catch(fault.KindArithmetic, func(err error) error {
		caught = err
		return nil
	}).Run()

	if err != nil {
		t.Fatalf("expected fault to be resolved, got %v", err)
	}
	if fault.KindOf(caught) != fault.KindArithmetic {
		t.Errorf("expected ArithmeticFault, got %v", caught)
	}
}

func TestRunFirstMatchingHandlerWins(t *testing.T) {
	var fired []string
	idx := 10

	err := Try(func() error {
		c := []int{1, 2, 3}
		c[idx] = 11
		return nil
	}).Catch(fault.KindArithmetic, func(err error) error {
		fired = append(fired, "arithmetic")
		return nil
	}).Catch(fault.KindIndexOutOfBounds, func(err error) error {
		fired = append(fired, "bounds")
		return nil
	}).Catch(fault.KindAny, func(err error) error {
		fired = append(fired, "any")
		return nil
	}).Run()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fired) != 1 || fired[0] != "bounds" {
		t.Errorf("expected only bounds handler, got %v", fired)
	}
}

func TestRunAncestorHandlerMatches(t *testing.T) {
	handled := false

	err := Try(func() error {
		return fault.NullReference("throw test")
	}).Catch(fault.KindRuntime, func(err error) error {
		handled = true
		return nil
	}).Run()

	if err != nil || !handled {
		t.Errorf("expected runtime handler to resolve null reference, err=%v handled=%v", err, handled)
	}
}

func TestRunUnmatchedFaultPropagates(t *testing.T) {
	cleaned := false
	orig := fault.IllegalAccess("demonstration")

	err := Try(func() error {
		return orig
	}).Catch(fault.KindIndexOutOfBounds, func(err error) error {
		t.Error("bounds handler should not fire")
		return nil
	}).Finally(func() {
		cleaned = true
	}).Run()

	if err != error(orig) {
		t.Errorf("expected original fault, got %v", err)
	}
	if !cleaned {
		t.Error("expected cleanup to run on propagation")
	}
}

func TestRunRethrow(t *testing.T) {
	orig := fault.NullReference("throw test")

	err := Try(func() error {
		return orig
	}).Catch(fault.KindNullReference, func(err error) error {
		return err
	}).Run()

	if err != error(orig) {
		t.Errorf("expected rethrown fault, got %v", err)
	}
}

func TestRunCleanupBeforeOuterHandler(t *testing.T) {
	var steps []string

	err := Try(func() error {
		return Try(func() error {
			steps = append(steps, "inner")
			return fault.Runtime("demo")
		}).Finally(func() {
			steps = append(steps, "inner-cleanup")
		}).Run()
	}).Catch(fault.KindAny, func(err error) error {
		steps = append(steps, "outer-handler")
		return nil
	}).Run()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(steps, ","); got != "inner,inner-cleanup,outer-handler" {
		t.Errorf("unexpected order: %s", got)
	}
}

func TestRunCleanupOnHandlerPanic(t *testing.T) {
	cleaned := false

	defer func() {
		if recover() == nil {
			t.Error("expected handler panic to propagate")
		}
		if !cleaned {
			t.Error("expected cleanup before panic propagated")
		}
	}()

	_ = Try(func() error {
		return fault.IO("Error")
	}).Catch(fault.KindIO, func(err error) error {
		panic("handler failed")
	}).Finally(func() {
		cleaned = true
	}).Run()
}

func TestValidateHandlerOrder(t *testing.T) {
	tests := []struct {
		name    string
		kinds   []fault.Kind
		wantErr bool
	}{
		{"specific first", []fault.Kind{fault.KindArithmetic, fault.KindAny}, false},
		{"siblings", []fault.Kind{fault.KindArithmetic, fault.KindIndexOutOfBounds}, false},
		{"broad first", []fault.Kind{fault.KindAny, fault.KindArithmetic}, true},
		{"parent first", []fault.Kind{fault.KindRuntime, fault.KindNullReference}, true},
		{"duplicate", []fault.Kind{fault.KindIO, fault.KindIO}, true},
		{"other branch", []fault.Kind{fault.KindChecked, fault.KindArithmetic}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Try(func() error { return nil })
			for _, k := range tt.kinds {
				r.Catch(k, func(err error) error { return nil })
			}
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunRejectsUnreachableHandler(t *testing.T) {
	ran := false
	cleaned := false

	err := Try(func() error {
		ran = true
		return nil
	}).Catch(fault.KindAny, func(err error) error {
		return nil
	}).Catch(fault.KindArithmetic, func(err error) error {
		return nil
	}).Finally(func() {
		cleaned = true
	}).Run()

	if !errors.Is(err, ErrUnreachableHandler) {
		t.Fatalf("expected ErrUnreachableHandler, got %v", err)
	}

	var orderErr *OrderError
	if !errors.As(err, &orderErr) {
		t.Fatal("expected *OrderError")
	}
	if orderErr.Index != 1 || orderErr.Earlier != 0 {
		t.Errorf("unexpected positions: %+v", orderErr)
	}
	if ran || cleaned {
		t.Error("body and cleanup must not run for an invalid region")
	}
}

func TestObserver(t *testing.T) {
	rec := &recorder{}

	_ = Try(func() error {
		return fault.Runtime("demo")
	}).Catch(fault.KindRuntime, func(err error) error {
		return nil
	}).Finally(func() {}).Observe(rec).Run()

	_ = Try(func() error {
		return fault.IO("Error")
	}).Observe(rec).Run()

	if rec.raised != 2 {
		t.Errorf("expected 2 raised, got %d", rec.raised)
	}
	if rec.handled != 1 {
		t.Errorf("expected 1 handled, got %d", rec.handled)
	}
	if rec.cleanups != 1 {
		t.Errorf("expected 1 cleanup, got %d", rec.cleanups)
	}
}
