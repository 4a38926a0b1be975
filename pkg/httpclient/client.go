package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

const (
	// HTTPクライアント関連の定数
	DefaultHTTPTimeout = 10 * time.Second
	MaxBodySize        = int64(10 * 1024 * 1024) // 10MB: レスポンスボディの最大読み込みサイズ

	// エラーメッセージに含めるボディの最大文字数 (rune 単位)
	maxErrorBodyLength = 1024

	// サイトからのブロックを避けるためのUser-Agent
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースを定義します。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response は一回の GET リクエストの結果です。
type Response struct {
	StatusCode int
	RequestURL string // 送信したURL
	FinalURL   string // リダイレクト追従後のURL
	Body       []byte // UTF-8 に変換済みのボディ
}

// Redirected は、リクエストが別のURLへリダイレクトされたかどうかを返します。
func (r *Response) Redirected() bool {
	return r.FinalURL != r.RequestURL
}

// CheckStatus はステータスコードが 200 以外の場合に UnexpectedStatusError を返します。
func (r *Response) CheckStatus() error {
	if r.StatusCode == http.StatusOK {
		return nil
	}
	return &UnexpectedStatusError{
		URL:        r.RequestURL,
		StatusCode: r.StatusCode,
		Body:       r.Body,
	}
}

// FetchError は、ネットワークエラーやタイムアウトなど通信レベルの失敗を示します。
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("フェッチに失敗しました (URL: %s): %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError は、HTTP 200 以外のステータスコードを受け取ったことを示します。
type UnexpectedStatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *UnexpectedStatusError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("予期しないHTTPステータスコード: 200 を期待しましたが %d を受信しました (URL: %s), ボディなし", e.StatusCode, e.URL)
	}
	if runes := []rune(body); len(runes) > maxErrorBodyLength {
		body = string(runes[:maxErrorBodyLength]) + "..."
	}
	return fmt.Sprintf("予期しないHTTPステータスコード: 200 を期待しましたが %d を受信しました (URL: %s), ボディ: %s", e.StatusCode, e.URL, body)
}

// IsFetchError は与えられたエラーが通信レベルの失敗であるかを判断します。
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsUnexpectedStatus は与えられたエラーが UnexpectedStatusError であるかを判断します。
func IsUnexpectedStatus(err error) bool {
	var statusErr *UnexpectedStatusError
	return errors.As(err, &statusErr)
}

// Client はリダイレクトを透過的に追従し、最終URLを報告する GET 専用のクライアントです。
// 失敗したリクエストの再試行は行いません。
type Client struct {
	httpClient Doer
	userAgent  string
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent は User-Agent ヘッダーを上書きします。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New は、新しいClientを生成します。timeout はリクエスト一件あたりの上限です。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	// publicsuffix.List を渡す限りエラーは返らない
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		userAgent: UserAgent,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// addCommonHeaders は共通のHTTPヘッダーを設定します。
func (c *Client) addCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
}

// Get は url へ GET リクエストを一回送信します。
// ステータスコードの判定は呼び出し元の責務で、通信レベルの失敗のみ FetchError として返します。
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)}
	}
	c.addCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	requestURL := req.URL.String()
	finalURL := requestURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		RequestURL: requestURL,
		FinalURL:   finalURL,
		Body:       body,
	}, nil
}

// readBody はボディを最大サイズに制限して読み込み、UTF-8 に変換します。
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if int64(len(raw)) > MaxBodySize {
		return nil, fmt.Errorf("レスポンスボディが最大サイズ (%dバイト) を超えました", MaxBodySize)
	}
	if len(raw) == 0 {
		return raw, nil
	}

	contentType := ""
	if resp.Header != nil {
		contentType = resp.Header.Get("Content-Type")
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, fmt.Errorf("文字コードの判定に失敗しました: %w", err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("文字コードの変換に失敗しました: %w", err)
	}
	return decoded, nil
}
