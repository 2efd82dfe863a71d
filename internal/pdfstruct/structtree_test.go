package pdfstruct

import (
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

func TestWalkStructureTreeBasicRoles(t *testing.T) {
	roots := []StructElement{
		{Type: "H1", MCIDs: []int{1}},
		{Type: "P", MCIDs: []int{2}},
		{Type: "LI", Children: []StructElement{
			{Type: "Lbl", ActualText: "1."},
		}, MCIDs: []int{3}},
	}
	mcidText := map[int]string{1: "Title", 2: "Body text here.", 3: "Item one"}

	blocks := WalkStructureTree(roots, mcidText, nil)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].Role.Kind != model.RoleHeading || blocks[0].Role.Level != 1 {
		t.Errorf("expected H1 heading, got %+v", blocks[0].Role)
	}
	if blocks[1].Role.Kind != model.RoleParagraph {
		t.Errorf("expected paragraph, got %+v", blocks[1].Role)
	}
	if blocks[2].Role.Kind != model.RoleListItem || blocks[2].Role.Label != "1." {
		t.Errorf("expected list item with label '1.', got %+v", blocks[2].Role)
	}
}

func TestWalkStructureTreeEmptyElementNotEmitted(t *testing.T) {
	roots := []StructElement{{Type: "P", MCIDs: []int{99}}}
	blocks := WalkStructureTree(roots, map[int]string{}, nil)
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks from an empty element, got %d", len(blocks))
	}
}

func TestWalkStructureTreeFlattensEmptyWrappers(t *testing.T) {
	roots := []StructElement{
		{Type: "Div", Children: []StructElement{
			{Type: "P", MCIDs: []int{1}},
		}},
	}
	mcidText := map[int]string{1: "hello"}
	blocks := WalkStructureTree(roots, mcidText, nil)
	if len(blocks) != 1 || blocks[0].Role.Kind != model.RoleParagraph {
		t.Fatalf("expected the Div wrapper flattened away, got %+v", blocks)
	}
}

func TestWalkStructureTreePreservesWrapperWithOwnText(t *testing.T) {
	roots := []StructElement{
		{Type: "Div", ActualText: "wrapper text", Children: []StructElement{
			{Type: "P", MCIDs: []int{1}},
		}},
	}
	mcidText := map[int]string{1: "hello"}
	blocks := WalkStructureTree(roots, mcidText, nil)
	if len(blocks) != 1 || blocks[0].Role.Kind != model.RoleOther {
		t.Fatalf("expected the Div wrapper preserved since it has its own text, got %+v", blocks)
	}
}

func TestValidateHeadingLevelsDemotesOversizedWordCount(t *testing.T) {
	big := 14.0
	blocks := []model.ExtractedBlock{
		{Role: model.BlockRole{Kind: model.RoleHeading, Level: 1}, Text: "one two three four five six seven eight nine ten eleven twelve thirteen", FontSize: &big},
	}
	out := ValidateHeadingLevels(blocks, 10.0)
	if out[0].Role.Kind != model.RoleParagraph {
		t.Errorf("expected demotion for >12 words, got %+v", out[0].Role)
	}
}

func TestValidateHeadingLevelsKeepsQualifyingHeading(t *testing.T) {
	big := 14.0
	blocks := []model.ExtractedBlock{
		{Role: model.BlockRole{Kind: model.RoleHeading, Level: 2}, Text: "Short Title", FontSize: &big},
	}
	out := ValidateHeadingLevels(blocks, 10.0)
	if out[0].Role.Kind != model.RoleHeading {
		t.Errorf("expected heading preserved, got %+v", out[0].Role)
	}
}

func TestValidateHeadingLevelsPrependsListLabel(t *testing.T) {
	blocks := []model.ExtractedBlock{
		{Role: model.BlockRole{Kind: model.RoleListItem, Label: "1."}, Text: "first item"},
	}
	out := ValidateHeadingLevels(blocks, 10.0)
	if out[0].Text != "1. first item" {
		t.Errorf("expected label prepended, got %q", out[0].Text)
	}
}

func TestEstimateBodyFontSizeModalValue(t *testing.T) {
	mk := func(size float64) model.ExtractedBlock {
		s := size
		return model.ExtractedBlock{Text: "x", FontSize: &s}
	}
	blocks := []model.ExtractedBlock{mk(10), mk(10), mk(10), mk(18)}
	if got := EstimateBodyFontSize(blocks); got != 10 {
		t.Errorf("got %v want 10", got)
	}
}
