package dom

// ----------------------------------------------------------------------
// HTML クエリの抽象化
// ----------------------------------------------------------------------

// Element は HTML ドキュメント内の一つのノードを表します。
// サイト固有の構造 (クラス名や子ノードの位置) に依存する処理は、
// すべてこのインターフェース越しに行います。
type Element interface {
	// Text は正規化済みのテキスト内容を返します。
	Text() string
	// Attr は属性値を返します。
	Attr(name string) (string, bool)
	// InnerHTML は要素の内部マークアップを返します。
	InnerHTML() string
	// ChildNode は i 番目の子ノード (テキストノードを含む) を返します。
	ChildNode(i int) (Element, bool)
	// FindFirst は tag に一致する最初の子孫要素を返します。
	FindFirst(tag string) (Element, bool)
	// FindByClass は tag と class (空白区切りで複数指定可) に一致する子孫要素を文書順に返します。
	FindByClass(tag, class string) []Element
}

// Document は解析済みの HTML ドキュメントを表します。
type Document interface {
	// Title は <title> のテキストを返します。
	Title() string
	// FindAll は tag に一致するすべての要素を文書順に返します。
	FindAll(tag string) []Element
	// FindByID は id を持つ要素を返します。
	FindByID(id string) (Element, bool)
}
