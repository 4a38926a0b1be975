package extract

import (
	"context"

	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Getter は、URL に GET リクエストを送信する機能のインターフェースを定義します。
// *httpclient.Client がこれを満たします。
type Getter interface {
	Get(ctx context.Context, url string) (*httpclient.Response, error)
}
