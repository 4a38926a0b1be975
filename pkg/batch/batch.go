package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

// Lookup は検索語一件を JSON テキストに変換する機能です。*compendium.Client がこれを満たします。
type Lookup interface {
	GetResult(ctx context.Context, term string) (string, error)
}

// Runner は複数の検索語を入力順に一件ずつ処理します。
type Runner struct {
	lookup Lookup
}

// NewRunner は Runner を初期化します。
func NewRunner(lookup Lookup) (*Runner, error) {
	if lookup == nil {
		return nil, fmt.Errorf("batch.NewRunner: Lookup cannot be nil")
	}
	return &Runner{lookup: lookup}, nil
}

// Run は terms を順に処理し、空でない検索語ごとに一件の結果を返します。
// ある検索語の失敗は他の検索語の処理に影響しません。
// コンテキストが終了した後の検索語はリクエストを送らずにエラーとして記録されます。
func (r *Runner) Run(ctx context.Context, terms []string) []types.TermResult {
	results := make([]types.TermResult, 0, len(terms))

	for _, raw := range terms {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			results = append(results, types.TermResult{Term: term, Err: err})
			continue
		}

		text, err := r.lookup.GetResult(ctx, term)
		if err != nil {
			err = fmt.Errorf("検索語 %q の処理に失敗しました: %w", term, err)
		}
		results = append(results, types.TermResult{Term: term, JSON: text, Err: err})
	}
	return results
}
