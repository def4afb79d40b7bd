package mferr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/printforge/mf3/mferr"
)

func TestErrorMessageCarriesCode(t *testing.T) {
	err := mferr.New(mferr.CodeDuplicateID, "duplicate resource id 5")
	want := "E4001: duplicate resource id 5"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := mferr.Newf(mferr.CodeDuplicateID, "duplicate resource id %d", 5).WithResource(5)
	if !errors.Is(err, mferr.New(mferr.CodeDuplicateID, "")) {
		t.Error("errors.Is should match on code alone")
	}
	if errors.Is(err, mferr.New(mferr.CodeForwardRef, "")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := mferr.New(mferr.CodeMissingPart, "missing part /3D/other.model")
	outer := fmt.Errorf("loading referenced part: %w", inner)
	if !errors.Is(outer, mferr.New(mferr.CodeMissingPart, "")) {
		t.Error("code match should survive fmt.Errorf wrapping")
	}
	if got := mferr.CodeOf(outer); got != mferr.CodeMissingPart {
		t.Errorf("CodeOf = %q, want %q", got, mferr.CodeMissingPart)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := mferr.Wrap(mferr.CodeXMLSyntax, "malformed XML", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}

func TestWithContextReturnsCopies(t *testing.T) {
	base := mferr.New(mferr.CodeDanglingRef, "dangling")
	annotated := base.WithResource(7).WithRef(9).WithElement("component").WithAttr("objectid").WithPath("/3D/3dmodel.model")

	if base.ResourceID != 0 || base.RefID != 0 {
		t.Error("annotating must not mutate the original error")
	}
	if annotated.ResourceID != 7 || annotated.RefID != 9 {
		t.Errorf("context lost: resource=%d ref=%d", annotated.ResourceID, annotated.RefID)
	}
	if annotated.Element != "component" || annotated.Attr != "objectid" {
		t.Errorf("context lost: element=%q attr=%q", annotated.Element, annotated.Attr)
	}
	if annotated.Path != "/3D/3dmodel.model" {
		t.Errorf("context lost: path=%q", annotated.Path)
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if got := mferr.CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain error) = %q, want empty", got)
	}
}
