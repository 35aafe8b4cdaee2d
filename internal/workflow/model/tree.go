// Package model 定义生成结果的规范化内容树
package model

// PayloadShape 模型响应被识别出的结构形态
type PayloadShape string

const (
	// ShapeNested chapters -> scenes -> beats
	ShapeNested PayloadShape = "nested"
	// ShapeScenes 顶层 scenes 数组
	ShapeScenes PayloadShape = "scenes"
	// ShapeBeats 顶层 beats 数组
	ShapeBeats PayloadShape = "beats"
	// ShapeUnstructured 可解析但没有可识别的结构
	ShapeUnstructured PayloadShape = "unstructured"
	// ShapeUnparsed 未能提取出 JSON
	ShapeUnparsed PayloadShape = "unparsed"
)

// GenerationResult 规范化后的生成结果，Chapters 永不为空
type GenerationResult struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Prompt          string           `json:"prompt,omitempty"`
	Model           string           `json:"model,omitempty"`
	Shape           PayloadShape     `json:"shape,omitempty"`
	Characters      []CharacterDraft `json:"characters"`
	Locations       []LocationDraft  `json:"locations"`
	Chapters        []ChapterDraft   `json:"chapters"`
	RawResponseText string           `json:"raw_response_text"`
}

// CharacterDraft 角色草稿
type CharacterDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Role        string `json:"role"`
}

// LocationDraft 地点草稿
type LocationDraft struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	LocationType string `json:"location_type"`
}

// ChapterDraft 章节草稿
type ChapterDraft struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Scenes      []SceneDraft `json:"scenes"`
}

// SceneDraft 场景草稿
type SceneDraft struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Beats       []BeatDraft `json:"beats"`
}

// BeatDraft 节拍草稿，ExplicitOrder 为模型给出的顺序
type BeatDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	ExplicitOrder *int   `json:"explicit_order,omitempty"`
}

// FlattenBeats 按 章节 -> 场景 -> 节拍 顺序展开全部节拍
// 没有节拍但有描述的场景贡献一个以场景描述合成的节拍
func (r *GenerationResult) FlattenBeats() []BeatDraft {
	if r == nil {
		return nil
	}
	var out []BeatDraft
	for _, ch := range r.Chapters {
		for _, sc := range ch.Scenes {
			if len(sc.Beats) > 0 {
				out = append(out, sc.Beats...)
				continue
			}
			if sc.Description != "" {
				out = append(out, BeatDraft{Title: sc.Name, Description: sc.Description})
			}
		}
	}
	return out
}

// SceneCount 场景总数
func (r *GenerationResult) SceneCount() int {
	n := 0
	for _, ch := range r.Chapters {
		n += len(ch.Scenes)
	}
	return n
}
