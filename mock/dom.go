package mock

import (
	"strings"

	"github.com/shouni/go-dungeon-buddy/pkg/dom"
)

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
)

// Document は dom.Document の最小限の実装です。HTML パーサーを使わずに
// 抽出ロジックをテストするための合成ドキュメントを表します。
type Document struct {
	TitleText string
	Root      *Element
}

func (d *Document) Title() string {
	return d.TitleText
}

func (d *Document) FindAll(tag string) []dom.Element {
	if d.Root == nil {
		return []dom.Element{}
	}
	return d.Root.collect(func(e *Element) bool { return e.Tag == tag })
}

func (d *Document) FindByID(id string) (dom.Element, bool) {
	if d.Root == nil {
		return nil, false
	}
	found := d.Root.collect(func(e *Element) bool { return e.ID == id })
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// Element は dom.Element の最小限の実装です。
// Inner が空の場合、InnerHTML は子要素の href から合成されます。
type Element struct {
	Tag      string
	ID       string
	Class    string
	TextBody string
	Attrs    map[string]string
	Inner    string
	Children []*Element
}

func (e *Element) Text() string {
	return e.TextBody
}

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

func (e *Element) InnerHTML() string {
	if e.Inner != "" {
		return e.Inner
	}
	var b strings.Builder
	for _, c := range e.Children {
		if href, ok := c.Attrs["href"]; ok {
			b.WriteString(`<` + c.Tag + ` href="` + href + `">`)
		}
		b.WriteString(c.InnerHTML())
	}
	return b.String()
}

func (e *Element) ChildNode(i int) (dom.Element, bool) {
	if i < 0 || i >= len(e.Children) {
		return nil, false
	}
	return e.Children[i], true
}

func (e *Element) FindFirst(tag string) (dom.Element, bool) {
	found := e.descendants(func(c *Element) bool { return c.Tag == tag })
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

func (e *Element) FindByClass(tag, class string) []dom.Element {
	want := strings.Fields(class)
	return e.descendants(func(c *Element) bool {
		return c.Tag == tag && hasClasses(c.Class, want)
	})
}

func (e *Element) collect(match func(*Element) bool) []dom.Element {
	var out []dom.Element
	if match(e) {
		out = append(out, e)
	}
	return append(out, e.descendants(match)...)
}

func (e *Element) descendants(match func(*Element) bool) []dom.Element {
	out := []dom.Element{}
	for _, c := range e.Children {
		out = append(out, c.collect(match)...)
	}
	return out
}

func hasClasses(have string, want []string) bool {
	set := make(map[string]struct{})
	for _, c := range strings.Fields(have) {
		set[c] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return len(want) > 0
}
