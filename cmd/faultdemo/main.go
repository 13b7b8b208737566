// Package main is the entry point for faultdemo.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"faultdemo/internal/api"
	"faultdemo/internal/config"
	"faultdemo/internal/logger"
	"faultdemo/internal/scenario"
)

var (
	version = "dev"
)

// options はコマンドラインで指定された値
type options struct {
	configFile string
	presetName string
	only       string
	report     bool
	logLevel   string
	args       []string
}

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		presetName  = flag.String("preset", "", "プリセット名 (main, extras, all)")
		only        = flag.String("only", "", "実行するシナリオ名（カンマ区切り）")
		report      = flag.Bool("report", false, "実行レポートを stderr に表示")
		logLevel    = flag.String("log-level", "", "ログレベル (debug, info, warn, error)")
		listPresets = flag.Bool("list-presets", false, "利用可能なプリセットを表示")
		listAll     = flag.Bool("list", false, "利用可能なシナリオを表示")
		showVersion = flag.Bool("version", false, "バージョンを表示")
		serverMode  = flag.Bool("server", false, "Web UI サーバーモードで起動")
		serverAddr  = flag.String("addr", "", "サーバーアドレス (例: :8080, 0.0.0.0:3000)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `faultdemo - Fault Handling Demonstrations

Usage:
  faultdemo [options] [args...]

The number of positional args is used as the divisor in the
multiple-handlers scenario.

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 本体の9シナリオを実行
  faultdemo

  # 全シナリオを実行してレポートを表示
  faultdemo --preset all --report

  # 引数を渡して範囲外ハンドラを動かす
  faultdemo --only multiple-handlers x

  # 設定ファイルから実行
  faultdemo --config run.yaml

  # Web UIサーバーモードで起動
  faultdemo --server --addr :3000
`)
	}

	flag.Parse()

	// バージョン表示
	if *showVersion {
		fmt.Printf("faultdemo version %s\n", version)
		return
	}

	// 一覧表示
	if *listPresets {
		printPresets(os.Stdout)
		return
	}
	if *listAll {
		printScenarios(os.Stdout)
		return
	}

	opts := options{
		configFile: *configFile,
		presetName: *presetName,
		only:       *only,
		report:     *report,
		logLevel:   *logLevel,
		args:       flag.Args(),
	}

	fileConfig, err := loadConfig(opts.configFile)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	if err := configureLogger(fileConfig, opts.logLevel); err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	// Web UIサーバーモード
	if *serverMode {
		addr := *serverAddr
		if addr == "" {
			addr = fileConfig.Server.Addr
		}
		if addr == "" {
			addr = ":8080"
		}
		if err := runServer(addr); err != nil {
			logger.Error("", "サーバーエラー: %v", err)
			os.Exit(1)
		}
		return
	}

	runConfig, showReport, err := buildRunConfig(fileConfig, opts)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	if err := runScenarios(runConfig, os.Stdout, os.Stderr, showReport); err != nil {
		logger.Error("", "実行エラー: %v", err)
		os.Exit(1)
	}
}

// loadConfig は設定ファイルを読み込み検証する。パスが空なら空の設定を返す
func loadConfig(path string) (*config.FileConfig, error) {
	if path == "" {
		return &config.FileConfig{}, nil
	}

	fileConfig, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
	}
	if err := fileConfig.Validate(); err != nil {
		return nil, fmt.Errorf("設定検証エラー: %w", err)
	}
	return fileConfig, nil
}

// configureLogger はフラグ、設定ファイル、デフォルトの順でログレベルを決める
func configureLogger(fileConfig *config.FileConfig, flagLevel string) error {
	level, err := fileConfig.LogLevel(logger.LevelWarn)
	if err != nil {
		return err
	}
	if flagLevel != "" {
		level, err = logger.ParseLevel(flagLevel)
		if err != nil {
			return err
		}
	}
	logger.Default.SetLevel(level)
	return nil
}

// buildRunConfig は実行設定を構築する
func buildRunConfig(fileConfig *config.FileConfig, opts options) (scenario.Config, bool, error) {
	// 1. 設定ファイル（未指定ならデフォルト）
	cfg, err := fileConfig.ToRunConfig()
	if err != nil {
		return cfg, false, fmt.Errorf("設定変換エラー: %w", err)
	}
	showReport := fileConfig.Run.Report

	// 2. プリセット
	if opts.presetName != "" {
		preset, ok := scenario.GetPreset(opts.presetName)
		if !ok {
			return cfg, false, fmt.Errorf("不明なプリセット: %s (利用可能: %v)", opts.presetName, scenario.ListPresets())
		}
		args := cfg.Args
		cfg = preset
		cfg.Args = args
	}

	// 3. シナリオの個別指定
	if opts.only != "" {
		var names []string
		for _, name := range strings.Split(opts.only, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		cfg.Name = "custom"
		cfg.Description = "Scenarios selected on the command line"
		cfg.Scenarios = names
	}

	// 位置引数は設定ファイルの args より優先
	if len(opts.args) > 0 {
		cfg.Args = opts.args
	}
	if opts.report {
		showReport = true
	}

	if _, err := cfg.Resolve(); err != nil {
		return cfg, false, err
	}
	return cfg, showReport, nil
}

// runScenarios はシナリオを実行する。トランスクリプトは out、レポートは reportOut へ
func runScenarios(cfg scenario.Config, out, reportOut io.Writer, showReport bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			logger.Warn("", "中断シグナルを受信、実行を終了中...")
			cancel()
		case <-ctx.Done():
		}
	}()

	engine := scenario.New(cfg, out)
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if showReport {
		_, _ = fmt.Fprintln(reportOut, result.Report())
	}
	return nil
}

// printPresets は利用可能なプリセットを表示する
func printPresets(w io.Writer) {
	fmt.Fprintln(w, "利用可能なプリセット:")
	fmt.Fprintln(w)

	for _, p := range scenario.Presets() {
		fmt.Fprintf(w, "  %-8s %s\n", p.Name, p.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "使用例: faultdemo --preset all")
}

// printScenarios は利用可能なシナリオを表示する
func printScenarios(w io.Writer) {
	fmt.Fprintln(w, "利用可能なシナリオ:")
	fmt.Fprintln(w)

	for _, s := range scenario.Catalog() {
		fmt.Fprintf(w, "  %-22s %s\n", s.Name, s.Title)
	}
}

// runServer はWeb UIサーバーを起動する
func runServer(addr string) error {
	fmt.Println("faultdemo - Web UI Server")
	fmt.Println("=========================")
	fmt.Printf("Starting server on http://%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n中断シグナルを受信、サーバーを終了中...")
		cancel()
	}()

	server := api.NewServer(addr)
	return server.Start(ctx)
}
