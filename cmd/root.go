package cmd

import (
	"fmt"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/go-dungeon-buddy/internal/logging"
	"github.com/shouni/go-dungeon-buddy/internal/pipeline"
	"github.com/shouni/go-dungeon-buddy/pkg/config"
)

const appName = "dungeon-buddy"

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	ConfigPath        string // --config 設定ファイル
	BaseURL           string // --base-url サイトオリジン
	TimeoutSec        int    // --timeout タイムアウト
	OverallTimeoutSec int    // --overall-timeout 全体タイムアウト
	Strict            bool   // --strict 属性ブロック必須
}

var (
	Flags        AppFlags
	globalApp    *pipeline.App
	globalLogger = zap.NewNop()
)

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	defaults := config.Default()

	rootCmd.PersistentFlags().StringVar(&Flags.ConfigPath, "config", "", "YAML設定ファイルのパス")
	rootCmd.PersistentFlags().StringVar(&Flags.BaseURL, "base-url", defaults.BaseURL, "コンペンディウムのサイトオリジン")
	rootCmd.PersistentFlags().IntVar(&Flags.TimeoutSec, "timeout", defaults.TimeoutSec, "HTTPリクエストのタイムアウト時間（秒）")
	rootCmd.PersistentFlags().IntVar(&Flags.OverallTimeoutSec, "overall-timeout", defaults.OverallTimeoutSec, "コマンド全体のタイムアウト時間（秒）。0の場合は上限なし")
	rootCmd.PersistentFlags().BoolVar(&Flags.Strict, "strict", false, "属性ブロックがないページをエラーとして扱う")
}

// loadConfig は設定ファイルを読み込み、明示的に指定されたフラグで上書きします。
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(Flags.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = Flags.BaseURL
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSec = Flags.TimeoutSec
	}
	if flags.Changed("overall-timeout") {
		cfg.OverallTimeoutSec = Flags.OverallTimeoutSec
	}
	if flags.Changed("strict") {
		cfg.StrictAttributes = Flags.Strict
	}
	return cfg, nil
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// clibase.Flags.Verbose はこの関数の実行前に設定済みです。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(clibase.Flags.Verbose)
	if err != nil {
		return fmt.Errorf("ロガーの初期化エラー: %w", err)
	}
	globalLogger = logger

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	app, err := pipeline.Build(cfg, logger)
	if err != nil {
		return err
	}
	globalApp = app

	logger.Debug("設定を読み込みました",
		zap.String("base_url", app.Config.BaseURL),
		zap.Duration("timeout", app.Config.Timeout()),
		zap.Duration("overall_timeout", app.Config.OverallTimeout()),
		zap.Bool("strict", app.Config.StrictAttributes),
	)
	return nil
}

// getApp は、初期化されたコンポーネント一式を返します。
func getApp() (*pipeline.App, error) {
	if globalApp == nil {
		return nil, fmt.Errorf("アプリケーションが初期化されていません")
	}
	return globalApp, nil
}

// Execute は、clibase を使ってルートコマンドを実行します。
func Execute() {
	defer func() { _ = globalLogger.Sync() }()

	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		lookupCmd,
		suggestCmd,
		batchCmd,
	)
}
