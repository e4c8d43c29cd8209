package render

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ExecuteTemplate renders format with the provided data and the sprig
// function map. missingkey=zero keeps optional fields optional; sprig's
// 'required' covers the mandatory ones.
func ExecuteTemplate(format string, data interface{}) (string, error) {
	tmpl, err := template.New("wudwatch").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(format)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
