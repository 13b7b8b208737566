// Package recovery はシナリオ単位の隔離境界を提供する。
//
// Boundary はシナリオを一つずつ実行し、そこから漏れた障害を
// Escape として記録する。漏れ方は二通りあり、関数が返した error と
// 回復されなかったパニックのどちらも捕まえる。どのシナリオで障害が
// 漏れても、後続のシナリオは通常どおり実行される。
//
// # 機能
//
// - 隔離: 漏れた障害を捕まえ、プロセスを止めない
// - スタック記録: github.com/pkg/errors で漏れた地点のスタックを保持
// - 統計: 実行数・漏れた数・パニック数
//
// # 使用例
//
//	b := recovery.NewBoundary()
//	if esc := b.Isolate("cleanup", run); esc != nil {
//	    logger.Warn(esc.Scenario, "fault escaped: %v", esc)
//	    fmt.Printf("%+v\n", esc.Err) // スタック付き
//	}
package recovery
