package node

import (
	"fmt"
	"strings"

	wfmodel "mana-universe-api/internal/workflow/model"
)

// 占位文本，出现即表示内容已降级
const (
	PlaceholderUnstructured = "The model returned no structured story content. See the raw response for details."
	PlaceholderUnparsed     = "The model response could not be parsed. See the raw response for details."
)

const (
	titleMaxRunes    = 50
	untitledUniverse = "Untitled Universe"
)

// ClassifyPayload 按优先级识别载荷结构：chapters > scenes > beats > 无结构
func ClassifyPayload(p *RawPayload) wfmodel.PayloadShape {
	switch {
	case p == nil:
		return wfmodel.ShapeUnparsed
	case len(p.Chapters) > 0:
		return wfmodel.ShapeNested
	case len(p.Scenes) > 0:
		return wfmodel.ShapeScenes
	case len(p.Beats) > 0:
		return wfmodel.ShapeBeats
	default:
		return wfmodel.ShapeUnstructured
	}
}

// FallbackTitle 由用户输入截断得到标题
func FallbackTitle(userPrompt string) string {
	title := TruncateWithEllipsis(strings.TrimSpace(userPrompt), titleMaxRunes)
	if title == "" {
		return untitledUniverse
	}
	return title
}

// Normalize 将提取结果转换为规范内容树，不会失败
// 返回的树至少包含一个章节，且第一个章节至少包含一个场景
func Normalize(res ExtractResult, userPrompt string) *wfmodel.GenerationResult {
	if !res.OK() {
		return unparsedResult(res.FullResponse, userPrompt)
	}

	p := res.Payload
	shape := ClassifyPayload(p)
	out := &wfmodel.GenerationResult{
		Title:           firstNonEmpty(p.TitleText(), FallbackTitle(userPrompt)),
		Description:     p.DescriptionText(),
		Prompt:          userPrompt,
		Shape:           shape,
		Characters:      normalizeCharacters(p.Characters),
		Locations:       normalizeLocations(p.Locations),
		RawResponseText: res.FullResponse,
	}

	switch shape {
	case wfmodel.ShapeNested:
		out.Chapters = nestedChapters(p.Chapters)
	case wfmodel.ShapeScenes:
		out.Chapters = []wfmodel.ChapterDraft{singleChapter(flatScenes(p.Scenes))}
	case wfmodel.ShapeBeats:
		out.Chapters = []wfmodel.ChapterDraft{singleChapter(beatsAsScenes(p.Beats))}
	default:
		desc := firstNonEmpty(p.DescriptionText(), PlaceholderUnstructured)
		out.Chapters = []wfmodel.ChapterDraft{singleChapter([]wfmodel.SceneDraft{{Name: sceneLabel(1), Description: desc}})}
	}
	return out
}

func unparsedResult(raw, userPrompt string) *wfmodel.GenerationResult {
	return &wfmodel.GenerationResult{
		Title:       FallbackTitle(userPrompt),
		Description: "Generated from: " + userPrompt,
		Prompt:      userPrompt,
		Shape:       wfmodel.ShapeUnparsed,
		Characters:  []wfmodel.CharacterDraft{},
		Locations:   []wfmodel.LocationDraft{},
		Chapters: []wfmodel.ChapterDraft{
			singleChapter([]wfmodel.SceneDraft{{Name: sceneLabel(1), Description: PlaceholderUnparsed}}),
		},
		RawResponseText: raw,
	}
}

func singleChapter(scenes []wfmodel.SceneDraft) wfmodel.ChapterDraft {
	return wfmodel.ChapterDraft{Name: chapterLabel(1), Scenes: scenes}
}

func nestedChapters(chapters []rawChapter) []wfmodel.ChapterDraft {
	out := make([]wfmodel.ChapterDraft, 0, len(chapters))
	for i, ch := range chapters {
		draft := wfmodel.ChapterDraft{
			Name:        firstNonEmpty(ch.Name.String(), ch.Title.String(), chapterLabel(i+1)),
			Description: ch.Description.String(),
		}
		for j, sc := range ch.Scenes {
			scene := wfmodel.SceneDraft{
				Name:        firstNonEmpty(sc.Name.String(), sc.Title.String(), sceneLabel(j+1)),
				Description: firstNonEmpty(sc.Description.String(), sc.Content.String()),
				Beats:       make([]wfmodel.BeatDraft, 0, len(sc.Beats)),
			}
			for k, b := range sc.Beats {
				scene.Beats = append(scene.Beats, wfmodel.BeatDraft{
					Title:         firstNonEmpty(b.Title.String(), b.Name.String(), beatLabel(k+1)),
					Description:   firstNonEmpty(b.Description.String(), b.Content.String()),
					ExplicitOrder: b.explicitOrder(),
				})
			}
			draft.Scenes = append(draft.Scenes, scene)
		}
		// 没有场景的章节以自身描述合成一个场景
		if len(draft.Scenes) == 0 {
			draft.Scenes = []wfmodel.SceneDraft{{Name: sceneLabel(1), Description: draft.Description, Beats: []wfmodel.BeatDraft{}}}
		}
		out = append(out, draft)
	}
	return out
}

func flatScenes(scenes []rawScene) []wfmodel.SceneDraft {
	out := make([]wfmodel.SceneDraft, 0, len(scenes))
	for i, sc := range scenes {
		out = append(out, wfmodel.SceneDraft{
			Name:        firstNonEmpty(sc.Name.String(), sc.Title.String(), sceneLabel(i+1)),
			Description: firstNonEmpty(sc.Description.String(), sc.Content.String()),
			Beats:       []wfmodel.BeatDraft{},
		})
	}
	return out
}

// beatsAsScenes 旧格式：每个节拍转为一个场景，节拍内容成为场景描述
func beatsAsScenes(beats []rawBeat) []wfmodel.SceneDraft {
	out := make([]wfmodel.SceneDraft, 0, len(beats))
	for i, b := range beats {
		out = append(out, wfmodel.SceneDraft{
			Name:        firstNonEmpty(b.Title.String(), b.Name.String(), sceneLabel(i+1)),
			Description: firstNonEmpty(b.Description.String(), b.Content.String()),
			Beats:       []wfmodel.BeatDraft{},
		})
	}
	return out
}

func normalizeCharacters(items []rawCharacter) []wfmodel.CharacterDraft {
	out := make([]wfmodel.CharacterDraft, 0, len(items))
	for _, c := range items {
		out = append(out, wfmodel.CharacterDraft{
			Name:        c.Name.String(),
			Description: c.Description.String(),
			Role:        c.Role.String(),
		})
	}
	return out
}

func normalizeLocations(items []rawLocation) []wfmodel.LocationDraft {
	out := make([]wfmodel.LocationDraft, 0, len(items))
	for _, l := range items {
		out = append(out, wfmodel.LocationDraft{
			Name:         l.Name.String(),
			Description:  l.Description.String(),
			LocationType: firstNonEmpty(l.LocationType.String(), l.Type.String()),
		})
	}
	return out
}

func chapterLabel(n int) string { return fmt.Sprintf("Chapter %d", n) }
func sceneLabel(n int) string   { return fmt.Sprintf("Scene %d", n) }
func beatLabel(n int) string    { return fmt.Sprintf("Beat %d", n) }
