// Package pipeline は設定からコンポーネントを組み立て、全体タイムアウト付きで処理を実行します。
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shouni/go-dungeon-buddy/internal/logging"
	"github.com/shouni/go-dungeon-buddy/pkg/batch"
	"github.com/shouni/go-dungeon-buddy/pkg/compendium"
	"github.com/shouni/go-dungeon-buddy/pkg/config"
	"github.com/shouni/go-dungeon-buddy/pkg/extract"
	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
	"github.com/shouni/go-dungeon-buddy/pkg/search"
	"github.com/shouni/go-dungeon-buddy/pkg/suggest"
	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

// App は組み立て済みのコンポーネント一式です。
type App struct {
	Config    config.Config
	Lookup    logging.Lookup
	Suggester *suggest.Suggester
	Batch     *batch.Runner
}

// Build は cfg から HTTP クライアント、検索、抽出、公開窓口を組み立てます。
// httpOpts は HTTP クライアントにそのまま渡されます。
func Build(cfg config.Config, logger *zap.Logger, httpOpts ...httpclient.ClientOption) (*App, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, fmt.Errorf("設定の検証エラー: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append([]httpclient.ClientOption{httpclient.WithUserAgent(cfg.UserAgent)}, httpOpts...)
	getter := logging.NewGetterLogger(httpclient.New(cfg.Timeout(), opts...), logger)

	resolver, err := search.NewResolver(getter,
		search.WithBaseURL(cfg.BaseURL),
		search.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("Resolverの初期化エラー: %w", err)
	}

	extractor, err := extract.NewExtractor(getter, extract.WithStrictAttributes(cfg.StrictAttributes))
	if err != nil {
		return nil, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	client, err := compendium.New(resolver, extractor)
	if err != nil {
		return nil, fmt.Errorf("Clientの初期化エラー: %w", err)
	}
	lookup := logging.NewLookupLogger(client, logger)

	suggester, err := suggest.NewSuggester(getter, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("Suggesterの初期化エラー: %w", err)
	}

	runner, err := batch.NewRunner(lookup)
	if err != nil {
		return nil, fmt.Errorf("Runnerの初期化エラー: %w", err)
	}

	return &App{
		Config:    cfg,
		Lookup:    lookup,
		Suggester: suggester,
		Batch:     runner,
	}, nil
}

// overallContext は設定された全体タイムアウトをコンテキストに適用します。
// 全体タイムアウトが 0 の場合、一件の検索が何件のリクエストを伴っても
// 上限はリクエストごとの HTTP クライアントのタイムアウトのみです。
func (a *App) overallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := a.Config.OverallTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// LookupTerm は term を検索し、JSON テキストを返すメインの処理パイプラインです。
func (a *App) LookupTerm(ctx context.Context, term string) (string, error) {
	ctx, cancel := a.overallContext(ctx)
	defer cancel()

	text, err := a.Lookup.GetResult(ctx, term)
	if err != nil {
		return "", fmt.Errorf("検索語の処理エラー (検索語: %s): %w", term, err)
	}
	return text, nil
}

// SuggestTerms は term に対する候補語を返します。
func (a *App) SuggestTerms(ctx context.Context, term string) ([]string, error) {
	ctx, cancel := a.overallContext(ctx)
	defer cancel()

	values, err := a.Suggester.Suggest(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("候補語の取得エラー (検索語: %s): %w", term, err)
	}
	return values, nil
}

// LookupAll は terms を順に検索します。全体タイムアウトは一件ごとではなく処理全体に適用されます。
func (a *App) LookupAll(ctx context.Context, terms []string) []types.TermResult {
	ctx, cancel := a.overallContext(ctx)
	defer cancel()
	return a.Batch.Run(ctx, terms)
}
