// Package fault はデモで使う障害の種類と値を定義する。
//
// 障害の種類 (Kind) はタグ付きの列挙で、親子関係は明示的なテーブルで持つ。
// ハンドラは自分の Kind と一致するか、その子孫の障害を受け取る。
//
// # 種類の階層
//
//	KindAny
//	├── KindRuntime
//	│   ├── KindArithmetic
//	│   ├── KindIndexOutOfBounds
//	│   └── KindNullReference
//	└── KindChecked
//	    ├── KindIllegalAccess
//	    ├── KindIO
//	    └── KindCustom
//
// # 使用例
//
//	err := fault.NullReference("throw test")
//	fault.KindOf(err)                        // KindNullReference
//	errors.Is(err, fault.KindRuntime)        // true
//
//	// ランタイムパニックの分類
//	defer func() {
//	    if v := recover(); v != nil {
//	        err = fault.FromPanic(v) // "ArithmeticFault: integer divide by zero"
//	    }
//	}()
package fault
