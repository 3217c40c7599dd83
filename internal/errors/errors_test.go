package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNexusError_Format(t *testing.T) {
	err := New(CodeDefinitionParse, "bad yaml")
	if got := err.Error(); got != "[DEF_001] bad yaml" {
		t.Errorf("Error() = %q", got)
	}

	cause := fmt.Errorf("line 3: mapping values")
	wrapped := Wrap(CodeDefinitionParse, "bad yaml", cause)
	if !strings.Contains(wrapped.Error(), "line 3") {
		t.Errorf("wrapped error should include cause: %q", wrapped.Error())
	}
	if stderrors.Unwrap(wrapped) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestNexusError_Codes(t *testing.T) {
	err := UnresolvedVariable("HOST")
	if !HasCode(err, CodeVarUnresolved) {
		t.Error("HasCode failed for direct error")
	}

	outer := fmt.Errorf("running step: %w", err)
	if !HasCode(outer, CodeVarUnresolved) {
		t.Error("HasCode should see through fmt.Errorf wrapping")
	}
	if Code(outer) != CodeVarUnresolved {
		t.Errorf("Code = %q", Code(outer))
	}
	if Code(fmt.Errorf("plain")) != "" {
		t.Error("Code of a plain error should be empty")
	}
}

func TestIsDefinitionError(t *testing.T) {
	if !IsDefinitionError(DefinitionNotFound("x", nil)) {
		t.Error("DEF_006 is a definition error")
	}
	if IsDefinitionError(UnresolvedVariable("X")) {
		t.Error("VAR_001 is not a definition error")
	}
}

func TestNexusError_Details(t *testing.T) {
	err := DefinitionDuplicateStep("wf.yaml", "build")
	if err.Details["step"] != "build" || err.Details["source"] != "wf.yaml" {
		t.Errorf("details = %+v", err.Details)
	}
}

func TestNexusError_MarshalJSON(t *testing.T) {
	err := StepSpawnFailed("deploy", fmt.Errorf("no such file"))

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatal(jerr)
	}
	var decoded map[string]any
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatal(jerr)
	}
	if decoded["code"] != CodeStepSpawnFailed {
		t.Errorf("json code = %v", decoded["code"])
	}
	if _, ok := decoded["cause"]; !ok {
		t.Error("json should include the cause text")
	}
}
