package mock

import "context"

// Lookup は検索語を JSON テキストへ変換するコンポーネントのモックです。
type Lookup struct {
	GetResultFn func(ctx context.Context, term string) (string, error)
}

func (l *Lookup) GetResult(ctx context.Context, term string) (string, error) {
	return l.GetResultFn(ctx, term)
}
