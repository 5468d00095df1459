package gallery

import "html/template"

var pageTemplates = template.Must(template.New("gallery").Parse(`
{{- define "header" -}}
<!DOCTYPE html>
<html>
<head>
  <title>AI Art Metadata Explorer</title>
  <link rel="stylesheet" href="gallery.css">
</head>
<body>
<div class="intro">
  <div>
    Metadata gallery of images created with&nbsp;<a href="https://github.com/rbbrdckybk/ai-art-generator" target="_blank">AI Art Generator</a>.
  </div>
  <div class="small">
    Companion prompt file generated as&nbsp;<a href="{{.PromptHref}}">{{.PromptFile}}</a>.
  </div>
</div>
<div class="flex-column">
{{end}}

{{- define "row" -}}
{{"  "}}<div class="flex-row">
    <div>
      <a href="{{.Href}}">
        <img src="{{.Href}}" alt="{{.Name}}" height="{{.ThumbHeight}}">
      </a>
    </div>
    <div class="flex-info">
      <div>
        {{.Prompt}}
      </div>
      <div class="bottom">
        {{.Settings}}
{{- if .InitImage}}
        <div class="init"><a href="{{.InitImage}}">{{.InitName}}</a> used as init image @ {{.InitStrength}} strength</div>
{{- end}}
      </div>
    </div>
  </div>
{{end}}

{{- define "footer" -}}
</div>
<div class="footer">
Generated in {{.Millis}} milliseconds on {{.Date}} at {{.Time}}
</div>
</body>
</html>
{{end}}
`))

type headerData struct {
	PromptFile string
	PromptHref template.URL
}

type rowData struct {
	Href         template.URL
	Name         string
	ThumbHeight  int
	Prompt       string
	Settings     string
	InitImage    template.URL
	InitName     string
	InitStrength string
}

type footerData struct {
	Millis int64
	Date   string
	Time   string
}
