package scenario

import (
	"errors"

	"faultdemo/internal/fault"
	"faultdemo/internal/guard"
	"faultdemo/internal/logger"
)

// Separator は各セクションの見出しの下に出力される
const Separator = "-------------------------------------------"

// チェックポイント名
const (
	CheckpointGuardedAfterFault = "guarded.after-fault"
	CheckpointBoundsWrite       = "handlers.bounds-write"
	CheckpointRejectedBody      = "ordering.rejected-body"
	CheckpointNestedInner       = "nested.inner"
	CheckpointNestTry           = "nested-call.nesttry"
)

// Scenario は名前付きのデモ単位
type Scenario struct {
	Name  string           // 識別子（kebab-case）
	Title string           // セクション見出し
	Run   func(*Env) error // 本体。漏れた障害は error として返す
}

var catalog = []Scenario{
	{"unguarded-division", "Division by zero error, without own exception handling", unguardedDivision},
	{"guarded-division", "Division by zero error, with try and catch", guardedDivision},
	{"multiple-handlers", "Multiple catch clauses", multipleHandlers},
	{"handler-ordering", "Multiple catch clauses: subclass must come before its superclass", handlerOrdering},
	{"nested-regions", "Nested try statement", NestedRegions(0)},
	{"nested-call", "Nested try statement, with method call", NestedCall(0)},
	{"throw-rethrow", "Throw example", throwRethrow},
	{"declared-fault", "Throws example", declaredFault},
	{"cleanup", "Finally example", cleanup},
	{"custom-fault", "Custom exception subclass", customFault},
	{"propagation", "Exception propagation", propagation},
	{"declared-propagation", "Throws propagation", declaredPropagation},
}

// Catalog は全シナリオのコピーを返す
func Catalog() []Scenario {
	out := make([]Scenario, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup は名前からシナリオを取得する
func Lookup(name string) (Scenario, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

func divide(x, y int) int {
	return x / y
}

func store(c []int, i, v int) {
	c[i] = v
}

// printing は書式を出力して障害を解決するハンドラを返す
func printing(env *Env, format string) func(error) error {
	return func(err error) error {
		env.Printf(format, err)
		return nil
	}
}

// unguardedDivision は処理なしの割り算を見せるだけで、実行はしない。
// ガード領域の外で次のコードを動かすとプロセスごと落ちる:
//
//	a := 0
//	b := 10 / a // panic: runtime error: integer divide by zero
func unguardedDivision(env *Env) error {
	env.Println()
	return nil
}

func guardedDivision(env *Env) error {
	err := env.Try(func() error {
		a := 0
		b := divide(10, a)
		_ = b
		env.Mark(CheckpointGuardedAfterFault)
		env.Println("This line will not be executed.")
		return nil
	}).Catch(fault.KindArithmetic, func(err error) error {
		env.Printf("Exception: %v\n", err)
		env.Println("Division by zero.")
		return nil
	}).Run()
	if err != nil {
		return err
	}

	env.Println("After try/catch ")
	env.Println()
	return nil
}

// multipleHandlers は引数の数で割り、その後3要素のスライスの範囲外に書き込む。
// 引数がなければ割り算が先に失敗し、書き込みには到達しない
func multipleHandlers(env *Env) error {
	err := env.Try(func() error {
		a := len(env.Args())
		b := divide(10, a)
		_ = b
		c := []int{1, 2, 3}
		env.Mark(CheckpointBoundsWrite)
		store(c, 10, 11)
		return nil
	}).Catch(fault.KindArithmetic, printing(env, "Divide by 0: %v\n")).
		Catch(fault.KindIndexOutOfBounds, printing(env, "Array index oob: %v\n")).
		Run()
	if err != nil {
		return err
	}

	env.Println("After try/catch blocks ")
	env.Println()
	return nil
}

// handlerOrdering は広いハンドラが狭い種類の障害も受け取ることを示す。
// 広いハンドラの後に狭いハンドラを宣言した領域は実行前に拒否される
func handlerOrdering(env *Env) error {
	rejected := env.Try(func() error {
		env.Mark(CheckpointRejectedBody)
		return nil
	}).Catch(fault.KindAny, func(err error) error {
		return nil
	}).Catch(fault.KindArithmetic, func(err error) error {
		env.Println("This line will never be reached.")
		return nil
	}).Run()
	if !errors.Is(rejected, guard.ErrUnreachableHandler) {
		return rejected
	}
	logger.Debug("handler-ordering", "region rejected: %v", rejected)

	err := env.Try(func() error {
		a := 0
		b := divide(1, a)
		_ = b
		return nil
	}).Catch(fault.KindAny, func(err error) error {
		env.Println("Generic Exception catch ")
		env.Println()
		return nil
	}).Run()
	return err
}

// NestedRegions は入れ子のガード領域のシナリオを返す。
// a = 0 で外側、a = 1 で内側の割り算、a = 2 で内側の範囲外ハンドラが動く
func NestedRegions(a int) func(*Env) error {
	return func(env *Env) error {
		a := a
		err := env.Try(func() error {
			b := divide(1, a)
			_ = b
			return env.Try(func() error {
				env.Mark(CheckpointNestedInner)
				if a == 1 {
					a = divide(a, a-a)
				}
				if a == 2 {
					c := []int{1}
					store(c, 10, 11)
				}
				return nil
			}).Catch(fault.KindIndexOutOfBounds, printing(env, "Array index out-of-bounds: %v\n")).
				Catch(fault.KindArithmetic, printing(env, "Divide by 0: %v\n")).
				Run()
		}).Catch(fault.KindArithmetic, printing(env, "Divide by 0: %v\n")).Run()
		if err != nil {
			return err
		}

		env.Println()
		return nil
	}
}

// NestedCall は呼び出し先にガード領域があるシナリオを返す。
// a = 1 の割り算は nestTry で処理されず外側に伝わる
func NestedCall(a int) func(*Env) error {
	return func(env *Env) error {
		return env.Try(func() error {
			b := divide(1, a)
			_ = b
			return nestTry(env, a)
		}).Catch(fault.KindArithmetic, printing(env, "Divide by 0: %v\n")).Run()
	}
}

func nestTry(env *Env, a int) error {
	return env.Try(func() error {
		env.Mark(CheckpointNestTry)
		env.Println("try in nesttry() called")
		if a == 1 {
			a = divide(a, a-a)
		}
		if a == 2 {
			c := []int{1}
			store(c, 10, 11)
		}
		return nil
	}).Catch(fault.KindIndexOutOfBounds, printing(env, "Array index out-of-bounds: %v\n")).Run()
}

func throwRethrow(env *Env) error {
	return env.Try(func() error {
		return throwTest(env)
	}).Catch(fault.KindNullReference, func(err error) error {
		env.Printf("throw exception caught again: %v\n", err)
		env.Println()
		return nil
	}).Run()
}

// throwTest は障害を自分で作って受け取り、同じ値をそのまま返し直す
func throwTest(env *Env) error {
	return env.Try(func() error {
		return fault.NullReference("throw test")
	}).Catch(fault.KindNullReference, func(err error) error {
		env.Println("exception caught inside throwtest()")
		return err
	}).Run()
}

func declaredFault(env *Env) error {
	return env.Try(func() error {
		return causeException(env)
	}).Catch(fault.KindIllegalAccess, func(err error) error {
		env.Printf("Caught: %v\n", err)
		env.Println()
		return nil
	}).Run()
}

// causeException は常に KindIllegalAccess の障害を返す。自分では処理しないので
// 呼び出し側が KindIllegalAccess（またはその祖先）を処理する必要がある
func causeException(env *Env) error {
	env.Println("Inside causeException()")
	return fault.IllegalAccess("demonstration")
}

func cleanup(env *Env) error {
	err := env.Try(func() error {
		return methodA(env)
	}).Catch(fault.KindAny, printing(env, "Exception caught: %v\n")).Run()
	if err != nil {
		return err
	}

	if err := methodB(env); err != nil {
		return err
	}
	return methodC(env)
}

// methodA はガード領域の中でパニックし、後始末を通ってから呼び出し元へ伝える
func methodA(env *Env) error {
	return env.Try(func() error {
		env.Println("inside methodA()")
		panic(fault.Runtime("demo"))
	}).Finally(func() {
		env.Println("A's finally")
	}).Run()
}

// methodB は return で抜ける。defer された後始末は呼び出し元に戻る前に動く
func methodB(env *Env) error {
	defer env.Cleanup(func() {
		env.Println("B's finally")
	})
	env.Println("inside methodB()")
	return nil
}

// methodC はガード領域を正常に終える
func methodC(env *Env) error {
	return env.Try(func() error {
		env.Println("inside methodC()")
		return nil
	}).Finally(func() {
		env.Println("C's finally")
	}).Run()
}

// compute は 10 を超える値に MyException を返す
func compute(env *Env, a int) error {
	env.Printf("Called compute with a value of: %d\n", a)
	if a > 10 {
		return fault.MyException{Num: a}
	}
	env.Println("Normal exit")
	return nil
}

func customFault(env *Env) error {
	err := env.Try(func() error {
		if err := compute(env, 1); err != nil {
			return err
		}
		return compute(env, 20)
	}).Catch(fault.KindCustom, printing(env, "Caught: %v\n")).Run()
	if err != nil {
		return err
	}

	env.Println()
	return nil
}

// propagation は a で起きたパニックが b を素通りして c のハンドラに届くことを示す
func propagation(env *Env) error {
	propC(env)
	env.Println("Continue program")
	env.Println()
	return nil
}

func propA() {
	zero := 0
	_ = divide(1, zero)
}

func propB() {
	propA()
}

func propC(env *Env) {
	_ = env.Try(func() error {
		propB()
		return nil
	}).Catch(fault.KindAny, printing(env, "Exception caught: %v\n")).Run()
}

func declaredPropagation(env *Env) error {
	declC(env)
	env.Println("Program continues")
	env.Println()
	return nil
}

// declA は常に KindIO の障害を返す
func declA() error {
	return fault.IO("Error")
}

// declB は declA の KindIO の障害をそのまま返す
func declB() error {
	return declA()
}

func declC(env *Env) {
	_ = env.Try(declB).Catch(fault.KindAny, printing(env, "Exception caught: %v\n")).Run()
}
