package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
	"golang.org/x/net/html"
)

// Parse は r から HTML を読み込み、goquery をバックエンドとする Document を返します。
func Parse(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return &goqueryDocument{doc: doc}, nil
}

// ParseBytes はバイト配列から Document を生成します。
func ParseBytes(b []byte) (Document, error) {
	return Parse(bytes.NewReader(b))
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d *goqueryDocument) Title() string {
	return normalize(d.doc.Find("title").First().Text())
}

func (d *goqueryDocument) FindAll(tag string) []Element {
	return wrapAll(d.doc.Find(tag))
}

func (d *goqueryDocument) FindByID(id string) (Element, bool) {
	s := d.doc.Find(fmt.Sprintf("[id=%q]", id)).First()
	if s.Length() == 0 {
		return nil, false
	}
	return &goqueryElement{sel: s}, true
}

type goqueryElement struct {
	sel *goquery.Selection
}

func (e *goqueryElement) Text() string {
	return normalize(e.sel.Text())
}

func (e *goqueryElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *goqueryElement) InnerHTML() string {
	h, err := e.sel.Html()
	if err != nil {
		return ""
	}
	return h
}

// ChildNode はコメントノードを数えずに i 番目の子ノードを返します。
func (e *goqueryElement) ChildNode(i int) (Element, bool) {
	if i < 0 {
		return nil, false
	}
	n := 0
	var found *goquery.Selection
	e.sel.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		node := c.Get(0)
		if node.Type == html.CommentNode || node.Type == html.DoctypeNode {
			return true
		}
		if n == i {
			found = c
			return false
		}
		n++
		return true
	})
	if found == nil {
		return nil, false
	}
	return &goqueryElement{sel: found}, true
}

func (e *goqueryElement) FindFirst(tag string) (Element, bool) {
	s := e.sel.Find(tag).First()
	if s.Length() == 0 {
		return nil, false
	}
	return &goqueryElement{sel: s}, true
}

func (e *goqueryElement) FindByClass(tag, class string) []Element {
	return wrapAll(e.sel.Find(tag + classSelector(class)))
}

// normalize は改行やタブを含む連続した空白を一つにまとめます。
func normalize(text string) string {
	return strings.Join(strings.Fields(textUtils.NormalizeText(text)), " ")
}

// classSelector は "col-md-3 attrName" を ".col-md-3.attrName" に変換します。
func classSelector(class string) string {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return "." + strings.Join(fields, ".")
}

func wrapAll(s *goquery.Selection) []Element {
	elems := make([]Element, 0, s.Length())
	s.Each(func(_ int, item *goquery.Selection) {
		elems = append(elems, &goqueryElement{sel: item})
	})
	return elems
}
