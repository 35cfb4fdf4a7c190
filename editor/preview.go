package editor

import (
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// EmptyPreview is shown in place of the preview while the document is blank.
const EmptyPreview = `<div class="text-center text-muted py-5">` +
	`<i class="fas fa-file-alt fa-3x mb-3"></i>` +
	`<p>L'aperçu apparaîtra ici...</p>` +
	`<small>Commencez à taper du contenu dans l'éditeur</small>` +
	`</div>`

// Preview is the rendered live preview.
type Preview struct {
	Empty bool          `json:"empty"`
	HTML  template.HTML `json:"html"`
}

type markupRule struct {
	re   *regexp.Regexp
	repl string
}

var markupRules = []markupRule{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), `<strong>${1}</strong>`},
	{regexp.MustCompile(`\*(.*?)\*`), `<em>${1}</em>`},
	{regexp.MustCompile(`_(.*?)_`), `<u>${1}</u>`},
	{regexp.MustCompile(`\[CENTER\](.*?)\[/CENTER\]`), `<div style="text-align: center;">${1}</div>`},
	{regexp.MustCompile(`\[JUSTIFY\](.*?)\[/JUSTIFY\]`), `<div style="text-align: justify;">${1}</div>`},
}

const marker = "\x00"

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

func previewSanitizer() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("strong", "em", "u", "br", "span", "div")
		p.AllowAttrs("class").Matching(regexp.MustCompile(`^field-highlight$`)).OnElements("span")
		p.AllowStyles("text-align").MatchingEnum("center", "justify").OnElements("div")
		previewPolicy = p
	})
	return previewPolicy
}

// RenderPreview turns the editor text into preview HTML. Detected
// placeholders are highlighted first and swapped out while the inline markup
// is translated, so characters such as * or _ inside a field name never turn
// into formatting.
func RenderPreview(text string, fields FieldSet) Preview {
	if strings.TrimSpace(text) == "" {
		return Preview{Empty: true, HTML: template.HTML(EmptyPreview)}
	}

	out := strings.ReplaceAll(text, marker, "")
	if len(fields) > 0 {
		pairs := make([]string, 0, 2*len(fields))
		for i, f := range fields {
			pairs = append(pairs, Placeholder(f), marker+strconv.Itoa(i)+marker)
		}
		out = strings.NewReplacer(pairs...).Replace(out)
	}

	out = html.EscapeString(out)
	for _, r := range markupRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	out = strings.ReplaceAll(out, "\n", "<br>")

	if len(fields) > 0 {
		pairs := make([]string, 0, 2*len(fields))
		for i, f := range fields {
			pairs = append(pairs,
				marker+strconv.Itoa(i)+marker,
				`<span class="field-highlight">`+html.EscapeString(Placeholder(f))+`</span>`)
		}
		out = strings.NewReplacer(pairs...).Replace(out)
	}

	return Preview{HTML: template.HTML(previewSanitizer().Sanitize(out))}
}
