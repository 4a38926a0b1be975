// Package logging は zap ロガーの生成と、各コンポーネントをログ出力で包むデコレータを提供します。
package logging

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
)

// New はコンソール出力の zap ロガーを生成します。verbose の場合は Debug レベルを出力します。
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// Lookup は検索語を JSON テキストへ変換するコンポーネントです。
type Lookup interface {
	GetResult(ctx context.Context, term string) (string, error)
}

// LookupLogger は Lookup の呼び出しを一件ごとに記録します。
type LookupLogger struct {
	next   Lookup
	logger *zap.Logger
}

// NewLookupLogger は新しい LookupLogger を生成します。
func NewLookupLogger(next Lookup, logger *zap.Logger) *LookupLogger {
	return &LookupLogger{next: next, logger: logger}
}

// GetResult は処理時間と結果のサイズを記録し、内側の Lookup に委譲します。
func (l *LookupLogger) GetResult(ctx context.Context, term string) (text string, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("term", term),
			zap.Int("bytes", len(text)),
			zap.Duration("duration", time.Since(begin)),
		}
		if err != nil {
			l.logger.Warn("lookup", append(fields, zap.Error(err))...)
			return
		}
		l.logger.Info("lookup", fields...)
	}(time.Now())
	return l.next.GetResult(ctx, term)
}

// Getter は HTTP GET を行うコンポーネントです。*httpclient.Client がこれを満たします。
type Getter interface {
	Get(ctx context.Context, url string) (*httpclient.Response, error)
}

// GetterLogger は HTTP GET の URL、ステータス、リダイレクト先を Debug レベルで記録します。
type GetterLogger struct {
	next   Getter
	logger *zap.Logger
}

// NewGetterLogger は新しい GetterLogger を生成します。
func NewGetterLogger(next Getter, logger *zap.Logger) *GetterLogger {
	return &GetterLogger{next: next, logger: logger}
}

// Get はリクエストの結果を記録し、内側の Getter に委譲します。
func (g *GetterLogger) Get(ctx context.Context, url string) (resp *httpclient.Response, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("url", url),
			zap.Duration("duration", time.Since(begin)),
		}
		if resp != nil {
			fields = append(fields,
				zap.Int("status", resp.StatusCode),
				zap.String("final_url", resp.FinalURL),
				zap.Int("bytes", len(resp.Body)),
			)
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		g.logger.Debug("http get", fields...)
	}(time.Now())
	return g.next.Get(ctx, url)
}
