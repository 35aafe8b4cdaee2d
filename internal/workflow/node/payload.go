package node

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawPayload 模型返回的 JSON 载荷，兼容新旧三种结构
type RawPayload struct {
	Title       looseString            `json:"title"`
	Name        looseString            `json:"name"`
	Description looseString            `json:"description"`
	Summary     looseString            `json:"summary"`
	Characters  looseList[rawCharacter] `json:"characters"`
	Locations   looseList[rawLocation]  `json:"locations"`
	Chapters    looseList[rawChapter]   `json:"chapters"`
	Scenes      looseList[rawScene]     `json:"scenes"`
	Beats       looseList[rawBeat]      `json:"beats"`
}

// TitleText 标题，兼容 name 字段
func (p *RawPayload) TitleText() string {
	return firstNonEmpty(p.Title.String(), p.Name.String())
}

// DescriptionText 描述，兼容 summary 字段
func (p *RawPayload) DescriptionText() string {
	return firstNonEmpty(p.Description.String(), p.Summary.String())
}

type rawCharacter struct {
	Name        looseString `json:"name"`
	Description looseString `json:"description"`
	Role        looseString `json:"role"`
}

func (c *rawCharacter) UnmarshalJSON(data []byte) error {
	type alias rawCharacter
	return unmarshalObjectOrText(data, (*alias)(c), &c.Name)
}

type rawLocation struct {
	Name         looseString `json:"name"`
	Description  looseString `json:"description"`
	LocationType looseString `json:"location_type"`
	Type         looseString `json:"type"`
}

func (l *rawLocation) UnmarshalJSON(data []byte) error {
	type alias rawLocation
	return unmarshalObjectOrText(data, (*alias)(l), &l.Name)
}

type rawChapter struct {
	Name        looseString         `json:"name"`
	Title       looseString         `json:"title"`
	Description looseString         `json:"description"`
	Scenes      looseList[rawScene] `json:"scenes"`
}

func (c *rawChapter) UnmarshalJSON(data []byte) error {
	type alias rawChapter
	return unmarshalObjectOrText(data, (*alias)(c), &c.Description)
}

type rawScene struct {
	Name        looseString        `json:"name"`
	Title       looseString        `json:"title"`
	Description looseString        `json:"description"`
	Content     looseString        `json:"content"`
	Beats       looseList[rawBeat] `json:"beats"`
}

func (s *rawScene) UnmarshalJSON(data []byte) error {
	type alias rawScene
	return unmarshalObjectOrText(data, (*alias)(s), &s.Description)
}

type rawBeat struct {
	Title       looseString `json:"title"`
	Name        looseString `json:"name"`
	Description looseString `json:"description"`
	Content     looseString `json:"content"`
	Order       looseInt    `json:"order"`
	OrderIndex  looseInt    `json:"order_index"`
}

func (b *rawBeat) UnmarshalJSON(data []byte) error {
	type alias rawBeat
	return unmarshalObjectOrText(data, (*alias)(b), &b.Description)
}

// explicitOrder 返回模型给出的顺序
func (b *rawBeat) explicitOrder() *int {
	if v, ok := b.Order.Get(); ok {
		return &v
	}
	if v, ok := b.OrderIndex.Get(); ok {
		return &v
	}
	return nil
}

// unmarshalObjectOrText 对象按字段解析，纯文本写入 text 字段，其余类型忽略
func unmarshalObjectOrText(data []byte, obj any, text *looseString) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		return json.Unmarshal(trimmed, obj)
	case '"':
		return text.UnmarshalJSON(trimmed)
	default:
		return nil
	}
}

// looseString 接受字符串、数字、布尔值，对象与数组保留为紧凑 JSON 文本
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	switch trimmed[0] {
	case '"':
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return err
		}
		*s = looseString(buf.String())
	default:
		*s = looseString(trimmed)
	}
	return nil
}

// String 去除首尾空白
func (s looseString) String() string {
	return strings.TrimSpace(string(s))
}

// looseInt 接受整数、浮点数、数字字符串，其他值视为缺失
type looseInt struct {
	value int
	set   bool
}

func (i *looseInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*i = looseInt{}
	if len(trimmed) == 0 {
		return nil
	}
	text := string(trimmed)
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil
		}
		text = strings.TrimSpace(v)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*i = looseInt{value: int(f), set: true}
	return nil
}

// Get 返回值及是否存在
func (i looseInt) Get() (int, bool) {
	return i.value, i.set
}

// looseList 接受数组或单个元素，其它值视为空列表
type looseList[T any] []T

func (l *looseList[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*l = nil
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
	case '{':
		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return err
		}
		*l = looseList[T]{item}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
