package node

import (
	"strings"
	"testing"
)

func TestExtractPicksLongestBalancedRegion(t *testing.T) {
	raw := `Sure! {"note": "x"} Here it is: {"title": "T", "scenes": [{"name": "S1", "description": "has } brace"}]} thanks {}`
	res := Extract(raw)
	if !res.OK() {
		t.Fatalf("Extract failed: %v", res.Failure)
	}
	if res.Payload.TitleText() != "T" {
		t.Fatalf("title = %q", res.Payload.TitleText())
	}
	if len(res.Payload.Scenes) != 1 || res.Payload.Scenes[0].Description.String() != "has } brace" {
		t.Fatalf("scenes = %+v", res.Payload.Scenes)
	}
	if res.FullResponse != raw {
		t.Fatalf("full response not retained")
	}
}

func TestExtractNoObject(t *testing.T) {
	res := Extract("I cannot help with that.")
	if res.OK() || res.Failure == nil {
		t.Fatalf("expected failure")
	}
	if res.Failure.Reason != "no JSON object found" || res.Failure.Offset != -1 {
		t.Fatalf("failure = %+v", res.Failure)
	}
	if res.FullResponse != "I cannot help with that." {
		t.Fatalf("full response not retained")
	}
}

func TestExtractUnbalancedStartIsSkipped(t *testing.T) {
	res := Extract(`{"broken": [ ... {"title": "Inner"}`)
	if !res.OK() || res.Payload.TitleText() != "Inner" {
		t.Fatalf("expected inner object, got %+v / %+v", res.Payload, res.Failure)
	}
}

func TestExtractInvalidJSONCarriesDiagnostics(t *testing.T) {
	res := Extract(`prefix {"title": "T" "description": "missing comma"} suffix`)
	if res.OK() {
		t.Fatalf("expected failure")
	}
	f := res.Failure
	if f.Err == nil || f.Offset <= 0 || !strings.HasPrefix(f.Attempted, `{"title"`) {
		t.Fatalf("failure diagnostics incomplete: %+v", f)
	}
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"trailing comma object", `{"a":1,}`, `{"a":1}`},
		{"trailing comma array with whitespace", "[1,2,\n ]", "[1,2]"},
		{"crlf", "{\"a\":\"x\r\ny\"}", `{"a":"x y"}`},
		{"lone cr", "{\"a\":\"x\ry\"}", `{"a":"x y"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RepairJSON(tc.in); got != tc.want {
				t.Fatalf("RepairJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLooseFieldTypes(t *testing.T) {
	raw := `{"title": 42, "description": {"a": 1}, "chapters": {"name": "Only", "scenes": ["plain text scene"]},
		"characters": ["Daniel"], "beats": [{"description": "b", "order": "3"}]}`
	res := Extract(raw)
	if !res.OK() {
		t.Fatalf("Extract failed: %v", res.Failure)
	}
	p := res.Payload
	if p.TitleText() != "42" || p.DescriptionText() != `{"a":1}` {
		t.Fatalf("loose strings: %q %q", p.TitleText(), p.DescriptionText())
	}
	if len(p.Chapters) != 1 || len(p.Chapters[0].Scenes) != 1 || p.Chapters[0].Scenes[0].Description.String() != "plain text scene" {
		t.Fatalf("single-object chapters not tolerated: %+v", p.Chapters)
	}
	if len(p.Characters) != 1 || p.Characters[0].Name.String() != "Daniel" {
		t.Fatalf("string character not tolerated: %+v", p.Characters)
	}
	if o := p.Beats[0].explicitOrder(); o == nil || *o != 3 {
		t.Fatalf("numeric string order not parsed")
	}
}
