package server

import (
	"embed"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/crimson-sun/cardio/internal/engine/features"
	"github.com/crimson-sun/cardio/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// page is the data passed to index.html.
type page struct {
	Fields []features.Field
	Values map[string]string
	Result *result
}

// result is the rendered form of a model.View.
type result struct {
	Text       string
	Color      string
	Confidence string
	Chart      template.URL // data URI; typed so html/template keeps it intact
}

var printer = message.NewPrinter(language.English)

func newPage(v *model.View) page {
	p := page{Fields: features.Fields(), Values: map[string]string{}}
	if v == nil {
		return p
	}
	if v.Values != nil {
		p.Values = v.Values
	}
	r := &result{Text: v.Text, Color: v.Color}
	if v.Probabilities != nil {
		r.Confidence = printer.Sprintf("Healthy %.1f%% · Disease %.1f%%",
			v.Probabilities[0]*100, v.Probabilities[1]*100)
	}
	if v.HasChart() {
		r.Chart = template.URL("data:image/png;base64," + v.Chart)
	}
	p.Result = r
	return p
}
