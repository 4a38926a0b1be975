// Package listing は、検索結果一覧ページから候補リンクを抽出します。
package listing

import (
	"strings"

	"github.com/shouni/go-dungeon-buddy/pkg/dom"
	"github.com/shouni/go-dungeon-buddy/pkg/types"
)

const (
	listItemTag = "li"
	anchorTag   = "a"

	// relativeLinkMarker はサイト内相対リンクを含む項目の内部マークアップに現れるパターンです。
	relativeLinkMarker = `href="/`

	// 一つ目の子ノードはレイアウト用の装飾で、表示テキストは二つ目の子ノードにある
	displayTextChild = 1
)

// Result は一覧ページの走査結果です。
// Exact が非 nil の場合、検索語と完全一致する候補が見つかったため走査を打ち切っています。
// そのとき Candidates には一致した候補より前の項目だけが入ります。
type Result struct {
	Candidates []types.HyperLink
	Exact      *types.HyperLink
}

// Resolved は完全一致により一意のページに解決されたかを返します。
func (r Result) Resolved() bool {
	return r.Exact != nil
}

// ExtractCandidates は doc のすべての <li> を文書順に走査し、サイト内相対リンクを持つ項目を
// HyperLink として返します。重複は除去しません。
// 表示テキストが term と大文字小文字を区別せずに一致した時点で走査を終了します。
func ExtractCandidates(doc dom.Document, term string) Result {
	result := Result{Candidates: []types.HyperLink{}}

	for _, item := range doc.FindAll(listItemTag) {
		link, ok := candidate(item)
		if !ok {
			continue
		}
		if strings.EqualFold(link.Text, term) {
			result.Exact = &link
			return result
		}
		result.Candidates = append(result.Candidates, link)
	}
	return result
}

// candidate は一件の <li> から HyperLink を組み立てます。
// 外部サイトへのリンクやリンクを持たない項目は対象外です。
func candidate(item dom.Element) (types.HyperLink, bool) {
	if !strings.Contains(item.InnerHTML(), relativeLinkMarker) {
		return types.HyperLink{}, false
	}

	anchor, ok := item.FindFirst(anchorTag)
	if !ok {
		return types.HyperLink{}, false
	}
	href, ok := anchor.Attr("href")
	if !ok || !isRelativePath(href) {
		return types.HyperLink{}, false
	}

	text := anchor.Text()
	if child, ok := item.ChildNode(displayTextChild); ok {
		text = child.Text()
	}
	return types.HyperLink{Text: text, Link: href}, true
}

// isRelativePath は "/" で始まり、プロトコル相対URL ("//host") ではないパスかを判定します。
func isRelativePath(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}
