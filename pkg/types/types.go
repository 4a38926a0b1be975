package types

import (
	jsoniter "github.com/json-iterator/go"
)

// TitleKey は、すべての AttributeMap に必ず含まれる合成キーです。
const TitleKey = "title"

// jsonAPI は結果の直列化に利用する設定です。
// "D&D" のようなタイトルをそのまま出力するため HTML エスケープは行いません。
var jsonAPI = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: false,
}.Froze()

// HyperLink は、検索結果一覧に現れた候補一件 (表示テキストとサイト内相対リンク) を保持します。
// Result List Extractor によってのみ生成され、生成後は変更されません。
type HyperLink struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// AttributeMap は、属性ラベルから属性値への、挿入順を保持するマッピングです。
// キーの集合は固定されておらず、元ドキュメントの属性ブロックの内容だけで決まります。
type AttributeMap struct {
	keys   []string
	values map[string]string
}

// NewAttributeMap は、"title" エントリだけを持つ AttributeMap を生成します。
func NewAttributeMap(title string) *AttributeMap {
	m := &AttributeMap{values: make(map[string]string)}
	m.Set(TitleKey, title)
	return m
}

// Set はエントリを追加します。既存のキーの場合は値だけを更新し、位置は維持します。
func (m *AttributeMap) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get は key に対応する値を返します。
func (m *AttributeMap) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Title は "title" エントリの値を返します。
func (m *AttributeMap) Title() string {
	v, _ := m.Get(TitleKey)
	return v
}

// Keys は挿入順のキー一覧のコピーを返します。
func (m *AttributeMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len はエントリ数を返します。
func (m *AttributeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// MarshalJSON は挿入順を保ったまま JSON オブジェクトとして直列化します。
func (m *AttributeMap) MarshalJSON() ([]byte, error) {
	return encode(m.writeTo)
}

func (m *AttributeMap) writeTo(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(k)
			stream.WriteString(m.values[k])
		}
	}
	stream.WriteObjectEnd()
}

// Entry は複数候補の結果配列の一要素 {候補の表示テキスト: 属性} を表します。
type Entry struct {
	Name       string
	Attributes *AttributeMap
}

// Payload は Public Facade の最終結果です。
// Single が非 nil なら一意の結果 (JSON オブジェクト)、そうでなければ Entries の配列
// (候補なしの場合は空配列) として直列化されます。
type Payload struct {
	Single  *AttributeMap
	Entries []Entry
}

// IsSingle は一意の結果かどうかを返します。
func (p Payload) IsSingle() bool {
	return p.Single != nil
}

// MarshalJSON は Payload を JSON に直列化します。
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.IsSingle() {
		return p.Single.MarshalJSON()
	}
	return encode(func(stream *jsoniter.Stream) {
		stream.WriteArrayStart()
		for i, e := range p.Entries {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectStart()
			stream.WriteObjectField(e.Name)
			e.Attributes.writeTo(stream)
			stream.WriteObjectEnd()
		}
		stream.WriteArrayEnd()
	})
}

// JSON は Payload を JSON テキストとして返します。
func (p Payload) JSON() (string, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encode(write func(*jsoniter.Stream)) ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	write(stream)
	if stream.Error != nil {
		return nil, stream.Error
	}
	// ストリームのバッファはプールに返却されるためコピーする
	return append([]byte(nil), stream.Buffer()...), nil
}

// TermResult は、バッチ処理における検索語一件分の結果、またはエラーを保持します。
type TermResult struct {
	Term string // 検索語
	JSON string // GetResult の出力
	Err  error  // 処理中に発生したエラー
}
