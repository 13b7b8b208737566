// Package scenario はデモシナリオの定義と実行機能を提供する。
//
// シナリオエンジンは固定順のシナリオを一つずつ実行し、それぞれの
// トランスクリプトを出力する。各シナリオは recovery.Boundary で隔離され、
// あるシナリオから障害が漏れても後続のシナリオは実行される。
//
// # 機能
//
// - シナリオカタログ（名前・見出し・本体）
// - 定義済みプリセット
// - 実行結果のレポート生成
//
// # プリセット
//
// - main: 例外処理デモ本体の9シナリオ
// - extras: 独自障害・伝播・宣言済み障害の伝播
// - all: main と extras を順に
//
// # 使用例
//
//	config := scenario.DefaultConfig()
//	config.Args = os.Args[1:]
//	engine := scenario.New(config, os.Stdout)
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Fprintln(os.Stderr, result.Report())
package scenario
