package mock

import (
	"context"
	"net/http"

	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
)

// Getter は GET リクエストを送信するコンポーネントのモックです。
type Getter struct {
	GetFn func(ctx context.Context, url string) (*httpclient.Response, error)

	// Calls は呼び出されたURLを順に記録します。
	Calls []string
}

func (g *Getter) Get(ctx context.Context, url string) (*httpclient.Response, error) {
	g.Calls = append(g.Calls, url)
	return g.GetFn(ctx, url)
}

// Page はリダイレクトなしの HTTP 200 レスポンスを組み立てます。
func Page(url, body string) *httpclient.Response {
	return &httpclient.Response{
		StatusCode: http.StatusOK,
		RequestURL: url,
		FinalURL:   url,
		Body:       []byte(body),
	}
}

// Pages は URL ごとに固定の HTML を返す Getter を生成します。
// 登録されていない URL には 404 を返します。
func Pages(pages map[string]string) *Getter {
	return &Getter{
		GetFn: func(_ context.Context, url string) (*httpclient.Response, error) {
			body, ok := pages[url]
			if !ok {
				return &httpclient.Response{
					StatusCode: http.StatusNotFound,
					RequestURL: url,
					FinalURL:   url,
				}, nil
			}
			return Page(url, body), nil
		},
	}
}
