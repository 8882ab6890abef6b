package catalog

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// DefaultRowTemplate renders one module as a table row with a checkbox.
const DefaultRowTemplate = `<tr class="topcoat-list__item {{selected}}">` +
	`<td><input type="checkbox" class="checkbox" name="modules[]" value="{{name}}" {{checked}}></td>` +
	`<td>{{name}}</td>` +
	`<td class="hide">{{description}}</td>` +
	`</tr>`

// Field is one template substitution.
type Field struct {
	Key   string
	Value string
}

// Parse replaces every {{key}} in tpl with its value. All fields are applied
// in a single left-to-right pass, so substituted text is never expanded again.
// Placeholders without a field are left untouched.
func Parse(tpl string, fields []Field) string {
	if len(fields) == 0 {
		return tpl
	}
	pairs := make([]string, 0, 2*len(fields))
	for _, f := range fields {
		pairs = append(pairs, "{{"+f.Key+"}}", f.Value)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// Fields returns the substitutions for m: name, description, checked,
// selected and size. Text values are HTML-escaped.
func (m Module) Fields() []Field {
	checked, selected := "", ""
	if m.IncludedByDefault {
		checked, selected = "checked", "selected"
	}
	return []Field{
		{"name", stdhtml.EscapeString(m.Name)},
		{"description", stdhtml.EscapeString(m.Description)},
		{"checked", checked},
		{"selected", selected},
		{"size", strconv.Itoa(m.Size)},
	}
}

// Renderer turns a module list into a catalog fragment.
type Renderer struct {
	template string
	compact  *minify.M
}

// NewRenderer creates a renderer for the row template tpl (DefaultRowTemplate
// when empty). With compact set, the fragment is passed through an HTML
// minifier that keeps end tags and attribute quotes.
func NewRenderer(tpl string, compact bool) *Renderer {
	if tpl == "" {
		tpl = DefaultRowTemplate
	}
	r := &Renderer{template: tpl}
	if compact {
		m := minify.New()
		m.Add("text/html", &html.Minifier{
			KeepEndTags:      true,
			KeepQuotes:       true,
			KeepDocumentTags: true,
		})
		r.compact = m
	}
	return r
}

// Template returns the row template.
func (r *Renderer) Template() string { return r.template }

// Render concatenates one rendered row per module, in order.
func (r *Renderer) Render(modules []Module) (string, error) {
	var b strings.Builder
	for _, m := range modules {
		b.WriteString(Parse(r.template, m.Fields()))
	}
	if r.compact == nil {
		return b.String(), nil
	}
	return r.compact.String("text/html", b.String())
}
