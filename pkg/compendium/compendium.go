// Package compendium は検索語を受け取り、ルール集の属性を JSON テキストとして返す公開窓口です。
package compendium

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shouni/go-dungeon-buddy/pkg/dom"
	"github.com/shouni/go-dungeon-buddy/pkg/search"
	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

// Resolver は検索語を解決するコンポーネントです。*search.Resolver がこれを満たします。
type Resolver interface {
	Resolve(ctx context.Context, term string) (search.Resolution, error)
	PageURL(link string) string
}

// AttributeExtractor は詳細ページから属性を抽出するコンポーネントです。*extract.Extractor がこれを満たします。
type AttributeExtractor interface {
	Extract(doc dom.Document) (*types.AttributeMap, error)
	FetchAndExtract(ctx context.Context, url string) (*types.AttributeMap, error)
}

// Client は検索、候補ページの取得、属性抽出を順に実行します。
// 状態を持たないため、呼び出しはそれぞれ独立しています。
type Client struct {
	resolver  Resolver
	extractor AttributeExtractor
}

// New は新しい Client を生成します。
func New(resolver Resolver, extractor AttributeExtractor) (*Client, error) {
	if resolver == nil {
		return nil, fmt.Errorf("compendium.New: Resolver cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("compendium.New: AttributeExtractor cannot be nil")
	}
	return &Client{resolver: resolver, extractor: extractor}, nil
}

// GetResult は term を検索し、結果を JSON テキストで返します。
// 一意の結果は JSON オブジェクト、複数候補は {表示テキスト: 属性} の配列、候補なしは空配列になります。
func (c *Client) GetResult(ctx context.Context, term string) (string, error) {
	payload, err := c.Lookup(ctx, term)
	if err != nil {
		return "", err
	}
	text, err := payload.JSON()
	if err != nil {
		return "", fmt.Errorf("結果のJSON変換に失敗しました: %w", err)
	}
	return text, nil
}

// Lookup は GetResult と同じ処理を行い、直列化前の Payload を返します。
// 複数候補の詳細ページは候補の順に一件ずつ取得し、一件でも失敗した場合は全体を中断します。
func (c *Client) Lookup(ctx context.Context, term string) (types.Payload, error) {
	if err := validateTerm(term); err != nil {
		return types.Payload{}, err
	}

	res, err := c.resolver.Resolve(ctx, term)
	if err != nil {
		return types.Payload{}, err
	}

	switch res.Kind {
	case search.KindDocument:
		attrs, err := c.extractor.Extract(res.Document)
		if err != nil {
			return types.Payload{}, fmt.Errorf("属性の抽出に失敗しました (URL: %s): %w", res.URL, err)
		}
		return types.Payload{Single: attrs}, nil

	case search.KindListing:
		entries := make([]types.Entry, 0, len(res.Candidates))
		for _, cand := range res.Candidates {
			attrs, err := c.extractor.FetchAndExtract(ctx, c.resolver.PageURL(cand.Link))
			if err != nil {
				return types.Payload{}, fmt.Errorf("候補 %q の取得に失敗しました: %w", cand.Text, err)
			}
			entries = append(entries, types.Entry{Name: cand.Text, Attributes: attrs})
		}
		return types.Payload{Entries: entries}, nil
	}

	return types.Payload{}, &UnknownResolutionError{Kind: res.Kind}
}

func validateTerm(term string) error {
	if !utf8.ValidString(term) {
		return &InvalidInputError{Term: term, Reason: "UTF-8 として不正"}
	}
	if strings.TrimSpace(term) == "" {
		return &InvalidInputError{Term: term, Reason: "空文字列"}
	}
	return nil
}
