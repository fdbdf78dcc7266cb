package llm

import (
	"encoding/json"
	"testing"
)

type testVerdict struct {
	Rating      string `json:"rating" jsonschema:"enum=STRONG,enum=DEVELOPING,enum=NEEDS_WORK"`
	Explanation string `json:"explanation" jsonschema:"description=One or two sentences"`
	Details     struct {
		Concepts []string `json:"concepts"`
	} `json:"details"`
}

func TestSchemaFor_Strict(t *testing.T) {
	s, err := SchemaFor[testVerdict]("test-verdict-reflect", "Verdict")
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}
	if s.Name != "test-verdict-reflect" || s.Description != "Verdict" {
		t.Fatalf("unexpected metadata %+v", s)
	}
	def := s.Definition
	if _, ok := def["$schema"]; ok {
		t.Error("$schema should be stripped")
	}
	if def["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", def["additionalProperties"])
	}
	req, _ := def["required"].([]any)
	if len(req) != 3 || req[0] != "details" || req[1] != "explanation" || req[2] != "rating" {
		t.Errorf("required = %v, want sorted property names", req)
	}
	details := def["properties"].(map[string]any)["details"].(map[string]any)
	if details["additionalProperties"] != false {
		t.Error("nested objects should be strict too")
	}
}

func TestSchemaFor_ValidatesReflectedShape(t *testing.T) {
	s := MustSchemaFor[testVerdict]("test-verdict-validate", "Verdict")

	good := json.RawMessage(`{"rating":"DEVELOPING","explanation":"ok","details":{"concepts":["heat capacity"]}}`)
	if _, err := checkStructured(s, good); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	extra := json.RawMessage(`{"rating":"DEVELOPING","explanation":"ok","details":{"concepts":[]},"score":9}`)
	if _, err := checkStructured(s, extra); err == nil {
		t.Fatal("expected additional property to be rejected")
	}

	badEnum := json.RawMessage(`{"rating":"GREAT","explanation":"ok","details":{"concepts":[]}}`)
	if _, err := checkStructured(s, badEnum); err == nil {
		t.Fatal("expected enum violation")
	}
}
