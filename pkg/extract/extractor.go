package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/shouni/go-dungeon-buddy/pkg/dom"
	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

// ----------------------------------------------------------------------
// 定数定義 (解析関連のみ)
// ----------------------------------------------------------------------
const (
	attributesBlockID = "pageAttrs"
	attributeTag      = "div"
	labelClass        = "col-md-3 attrName"
	valueClass        = "value"
)

// ErrMissingAttributesBlock は、厳格モードで属性ブロックが見つからなかったことを示します。
var ErrMissingAttributesBlock = errors.New("属性ブロックが見つかりません")

// Extractor は、詳細ページから属性を抽出するプロセスを管理します。
type Extractor struct {
	getter Getter
	strict bool
}

// Option は Extractor の設定を行うための関数型です。
type Option func(*Extractor)

// WithStrictAttributes を true にすると、属性ブロックがないページで
// タイトルのみのマップを返す代わりに ErrMissingAttributesBlock を返します。
func WithStrictAttributes(strict bool) Option {
	return func(e *Extractor) {
		e.strict = strict
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(getter Getter, opts ...Option) (*Extractor, error) {
	if getter == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Getter cannot be nil")
	}
	e := &Extractor{getter: getter}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// FetchAndExtract は詳細ページを取得し、属性を抽出します。
func (e *Extractor) FetchAndExtract(ctx context.Context, url string) (*types.AttributeMap, error) {
	doc, err := FetchDocument(ctx, e.getter, url)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc)
}

// Extract は詳細ページのドキュメントからタイトルと属性のペアを抽出します。
// ラベルと値の数が一致しない場合は短い方に合わせ、エラーにはしません。
func (e *Extractor) Extract(doc dom.Document) (*types.AttributeMap, error) {
	attrs := types.NewAttributeMap(doc.Title())

	block, ok := doc.FindByID(attributesBlockID)
	if !ok {
		if e.strict {
			return nil, fmt.Errorf("%w (id: %s, title: %q)", ErrMissingAttributesBlock, attributesBlockID, attrs.Title())
		}
		return attrs, nil
	}

	labels := block.FindByClass(attributeTag, labelClass)
	values := block.FindByClass(attributeTag, valueClass)

	n := min(len(labels), len(values))
	for i := 0; i < n; i++ {
		attrs.Set(labels[i].Text(), values[i].Text())
	}
	return attrs, nil
}

// FetchDocument は url を取得し、HTTP 200 を確認したうえで解析済みドキュメントを返します。
func FetchDocument(ctx context.Context, getter Getter, url string) (dom.Document, error) {
	resp, err := getter.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := resp.CheckStatus(); err != nil {
		return nil, err
	}
	doc, err := dom.ParseBytes(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("詳細ページの解析に失敗しました (URL: %s): %w", url, err)
	}
	return doc, nil
}
