package figure

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// plotlyCDN pins the plotly.js version the HTML page loads.
const plotlyCDN = "https://cdn.plot.ly/plotly-2.32.0.min.js"

var htmlTemplate = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.CDN}}"></script>
<style>body { margin: 0; } #figure { margin: 0 auto; }</style>
</head>
<body>
<div id="figure"></div>
<script>
const spec = {{.Spec}};
Plotly.newPlot("figure", spec.data, spec.layout, {displaylogo: false});
</script>
</body>
</html>
`))

// WriteHTML writes the figure as a self-contained interactive HTML page
// that loads plotly.js from its CDN. The figure itself remains the
// artifact; this is a viewing convenience, not an image export.
func (f *Figure) WriteHTML(w io.Writer, title string) error {
	spec, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal figure: %w", err)
	}
	data := struct {
		Title string
		CDN   string
		Spec  template.JS
	}{
		Title: title,
		CDN:   plotlyCDN,
		Spec:  template.JS(spec),
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
