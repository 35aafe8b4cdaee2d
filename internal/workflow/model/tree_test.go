package model

import "testing"

func TestFlattenBeatsOrderAndSynthesis(t *testing.T) {
	two := 2
	r := &GenerationResult{
		Chapters: []ChapterDraft{
			{Name: "C1", Scenes: []SceneDraft{
				{Name: "S1", Beats: []BeatDraft{{Description: "a"}, {Description: "b", ExplicitOrder: &two}}},
				{Name: "S2", Description: "scene only"},
			}},
			{Name: "C2", Scenes: []SceneDraft{
				{Name: "S3"},
				{Name: "S4", Beats: []BeatDraft{{Description: "c"}}},
			}},
		},
	}

	got := r.FlattenBeats()
	want := []string{"a", "b", "scene only", "c"}
	if len(got) != len(want) {
		t.Fatalf("FlattenBeats len = %d, want %d", len(got), len(want))
	}
	for i, d := range want {
		if got[i].Description != d {
			t.Fatalf("beat %d = %q, want %q", i, got[i].Description, d)
		}
	}
	if got[2].Title != "S2" {
		t.Fatalf("synthesized beat title = %q", got[2].Title)
	}
	if got[1].ExplicitOrder == nil || *got[1].ExplicitOrder != 2 {
		t.Fatalf("explicit order lost")
	}
	if r.SceneCount() != 4 {
		t.Fatalf("SceneCount = %d", r.SceneCount())
	}
}
