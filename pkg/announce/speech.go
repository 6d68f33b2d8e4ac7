package announce

import (
	"strings"
	"text/template"
)

// DefaultTemplate is used when the remote configuration does not supply a
// speech template or supplies a broken one.
const DefaultTemplate = `{{.Supplier}} truck{{if .Material}} with {{.Material}}{{end}}, arriving {{if eq .Minutes 0}}now{{else}}in {{.Minutes}} minutes{{end}}.`

// SpeechData is the input to the speech template.
type SpeechData struct {
	Supplier string
	Material string
	Arrival  string // wall clock "HH:MM"
	Minutes  int    // the announced threshold
}

// Render executes the speech template against d.
func Render(tmpl string, d SpeechData) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}
	t, err := template.New("speech").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := t.Execute(&sb, d); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(sb.String()), " "), nil
}
