// Package search は検索語を一意の詳細ページ、または候補一覧に解決します。
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/shouni/go-dungeon-buddy/pkg/dom"
	"github.com/shouni/go-dungeon-buddy/pkg/extract"
	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
	"github.com/shouni/go-dungeon-buddy/pkg/listing"
	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

const (
	// DefaultBaseURL は元のデプロイ先のサイトオリジンです。
	DefaultBaseURL = "https://roll20.net"
	// SearchPath は一覧検索エンドポイントです。
	SearchPath = "/compendium/dnd5e/searchbook/?terms="
)

// Getter は、URL に GET リクエストを送信する機能のインターフェースを定義します。
type Getter interface {
	Get(ctx context.Context, url string) (*httpclient.Response, error)
}

// Kind は解決結果の種類です。
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindListing
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindListing:
		return "listing"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Resolution は Resolve の結果です。
// KindDocument の場合は Document と URL が、KindListing の場合は Candidates が設定されます。
type Resolution struct {
	Kind       Kind
	Document   dom.Document
	URL        string
	Candidates []types.HyperLink
}

// Resolver は検索リクエストを送信し、結果をリダイレクト先の詳細ページか候補一覧に振り分けます。
type Resolver struct {
	getter  Getter
	baseURL string
	logger  *zap.Logger
}

// Option は Resolver の設定を行うための関数型です。
type Option func(*Resolver)

// WithBaseURL はサイトオリジンを変更します。
func WithBaseURL(baseURL string) Option {
	return func(r *Resolver) {
		r.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger は診断用のロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver は新しい Resolver を生成します。
func NewResolver(getter Getter, opts ...Option) (*Resolver, error) {
	if getter == nil {
		return nil, fmt.Errorf("search.NewResolver: Getter cannot be nil")
	}
	r := &Resolver{
		getter:  getter,
		baseURL: DefaultBaseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	u, err := url.Parse(r.baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("search.NewResolver: 無効なベースURLです: %q", r.baseURL)
	}
	return r, nil
}

// BaseURL はサイトオリジンを返します。
func (r *Resolver) BaseURL() string {
	return r.baseURL
}

// SearchURL は term の検索URLを組み立てます。
func (r *Resolver) SearchURL(term string) string {
	return r.baseURL + SearchPath + Escape(term)
}

// PageURL はサイト内相対リンクを絶対URLに変換します。
func (r *Resolver) PageURL(link string) string {
	return r.baseURL + link
}

// queryUnescaper は QueryEscape の結果のうち、空白と "/" を検索エンドポイントの表記に戻します。
var queryUnescaper = strings.NewReplacer("+", "%20", "%2F", "/")

// Escape はクエリ文字列用に term をパーセントエンコードします。
// 英数字と "-_.~/" 以外をエンコードし、空白は "%20" になります。
func Escape(term string) string {
	return queryUnescaper.Replace(url.QueryEscape(term))
}

// Resolve は term を検索し、一意の詳細ページか候補一覧のいずれかを返します。
// 検索リクエストが HTTP 200 以外を返した場合は再試行せずに UnexpectedStatusError を返します。
func (r *Resolver) Resolve(ctx context.Context, term string) (Resolution, error) {
	searchURL := r.SearchURL(term)

	resp, err := r.getter.Get(ctx, searchURL)
	if err != nil {
		return Resolution{}, fmt.Errorf("検索リクエストに失敗しました: %w", err)
	}
	if err := resp.CheckStatus(); err != nil {
		return Resolution{}, err
	}

	doc, err := dom.ParseBytes(resp.Body)
	if err != nil {
		return Resolution{}, fmt.Errorf("検索結果の解析に失敗しました (URL: %s): %w", searchURL, err)
	}

	// リダイレクトされた場合、検索語は一意の詳細ページに解決されている
	if resp.Redirected() {
		r.logger.Debug("詳細ページにリダイレクトされました",
			zap.String("term", term),
			zap.String("url", resp.FinalURL),
		)
		return Resolution{Kind: KindDocument, Document: doc, URL: resp.FinalURL}, nil
	}

	result := listing.ExtractCandidates(doc, term)
	if result.Resolved() {
		pageURL := r.PageURL(result.Exact.Link)
		r.logger.Debug("完全一致する候補が見つかりました",
			zap.String("term", term),
			zap.String("url", pageURL),
		)
		page, err := extract.FetchDocument(ctx, r.getter, pageURL)
		if err != nil {
			return Resolution{}, fmt.Errorf("完全一致した候補ページの取得に失敗しました: %w", err)
		}
		return Resolution{Kind: KindDocument, Document: page, URL: pageURL}, nil
	}

	r.logger.Debug("完全一致する候補が見つかりませんでした",
		zap.String("term", term),
		zap.Int("candidates", len(result.Candidates)),
	)
	return Resolution{Kind: KindListing, Candidates: result.Candidates}, nil
}
