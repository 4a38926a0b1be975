// Package suggest はコンペンディウムの全体検索 (オートコンプリート) から候補語を取得します。
package suggest

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
	"github.com/shouni/go-dungeon-buddy/pkg/search"
)

// SuggestPath は全体検索エンドポイントです。
const SuggestPath = "/compendium/compendium/globalsearch/dnd5e?terms="

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Getter は、URL に GET リクエストを送信する機能のインターフェースを定義します。
type Getter interface {
	Get(ctx context.Context, url string) (*httpclient.Response, error)
}

type entry struct {
	Value string `json:"value"`
}

// Suggester は検索語に対する候補語の一覧を取得します。
type Suggester struct {
	getter  Getter
	baseURL string
}

// NewSuggester は新しい Suggester を生成します。baseURL が空の場合は search.DefaultBaseURL を使います。
func NewSuggester(getter Getter, baseURL string) (*Suggester, error) {
	if getter == nil {
		return nil, fmt.Errorf("suggest.NewSuggester: Getter cannot be nil")
	}
	if baseURL == "" {
		baseURL = search.DefaultBaseURL
	}
	return &Suggester{getter: getter, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// URL は term の全体検索URLを組み立てます。
func (s *Suggester) URL(term string) string {
	return s.baseURL + SuggestPath + search.Escape(term)
}

// Suggest は候補語を応答の順に返します。value が空の要素は除外します。
func (s *Suggester) Suggest(ctx context.Context, term string) ([]string, error) {
	url := s.URL(term)

	resp, err := s.getter.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("候補語の取得に失敗しました: %w", err)
	}
	if err := resp.CheckStatus(); err != nil {
		return nil, err
	}

	var entries []entry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("候補語のJSON解析に失敗しました (URL: %s): %w", url, err)
	}

	values := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Value != "" {
			values = append(values, e.Value)
		}
	}
	return values, nil
}
