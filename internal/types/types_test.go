package types

import (
	"encoding/json"
	"testing"
)

func TestTurnJSONShape(t *testing.T) {
	data, err := json.Marshal(UserTurn("질문"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"role":"user","content":"질문"}` {
		t.Errorf("unexpected wire shape: %s", data)
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n", "　"} {
		if !IsBlank(s) {
			t.Errorf("expected %q to be blank", s)
		}
	}
	if IsBlank(" a ") {
		t.Error("expected non-blank")
	}
}

func TestTurnString(t *testing.T) {
	if got := AssistantTurn("답변").String(); got != "assistant: 답변" {
		t.Errorf("unexpected string: %q", got)
	}
}
