package editor_test

import (
	"strings"
	"testing"

	"docbuilder/editor"
)

func render(text string) string {
	return string(editor.RenderPreview(text, editor.Scan(text)).HTML)
}

func TestRenderPreviewEmpty(t *testing.T) {
	p := editor.RenderPreview("  \n\t", nil)
	if !p.Empty {
		t.Fatal("blank text should render the empty state")
	}
	if !strings.Contains(string(p.HTML), "L'aperçu apparaîtra ici") {
		t.Fatalf("unexpected empty state: %s", p.HTML)
	}
}

func TestRenderPreviewHighlightAndBold(t *testing.T) {
	out := render("**bold** pour {{x}}")
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Fatalf("bold not rendered: %s", out)
	}
	if !strings.Contains(out, `<span class="field-highlight">{{x}}</span>`) {
		t.Fatalf("placeholder not highlighted: %s", out)
	}
}

func TestRenderPreviewMarkup(t *testing.T) {
	out := render("*it* _sous_ [CENTER]titre[/CENTER] [JUSTIFY]corps[/JUSTIFY]\nligne")
	for _, want := range []string{
		"<em>it</em>",
		"<u>sous</u>",
		"text-align: center",
		"text-align: justify",
		">titre</div>",
		"<br",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestRenderPreviewFieldNameWithMarkupChars(t *testing.T) {
	out := render("{{nom_du_client}} et {{a*b*c}}")
	if strings.Contains(out, "<u>") || strings.Contains(out, "<em>") {
		t.Fatalf("markup inside a placeholder was interpreted: %s", out)
	}
	if !strings.Contains(out, `<span class="field-highlight">{{nom_du_client}}</span>`) {
		t.Fatalf("placeholder not highlighted: %s", out)
	}
	if !strings.Contains(out, `<span class="field-highlight">{{a*b*c}}</span>`) {
		t.Fatalf("placeholder not highlighted: %s", out)
	}
}

func TestRenderPreviewEscapesHTML(t *testing.T) {
	out := render(`<script>alert(1)</script> <b onclick="x">hi</b>`)
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b ") {
		t.Fatalf("raw HTML leaked into the preview: %s", out)
	}
}

func TestRenderPreviewOnlyDetectedFieldsHighlighted(t *testing.T) {
	out := string(editor.RenderPreview("{{a}} {{b}}", editor.FieldSet{"a"}).HTML)
	if strings.Count(out, "field-highlight") != 1 {
		t.Fatalf("expected one highlight, got %s", out)
	}
}
