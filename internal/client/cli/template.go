package cli

import (
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	"datep": func(t *time.Time) string {
		if t == nil {
			return "never"
		}
		return t.Format(time.RFC3339)
	},
}

const productTemplate = `
=== Product Details ===

Name:      {{.Name}}
Local ID:  {{.LocalID}}
{{- if .RemoteID }}
Remote ID: {{.RemoteID}}
{{- end}}
Status:    {{.Status}}
Price:     {{.Price}}
{{- if .CategoryID }}
Category:  {{.CategoryID}}
{{- end}}
Delivery:  {{.DeliveryType}}
{{- if .DeliveryPayload }}
Payload:   {{.DeliveryPayload}}
{{- end}}
{{- if .ContentHash }}
Content:   {{.ContentHash}} ({{.FileSizeBytes}} bytes)
{{- end}}
Created:   {{date .CreatedAt}}
Updated:   {{date .UpdatedAt}}
Synced:    {{datep .SyncedAt}}
{{- if .Description }}

Description:
---
{{.Description}}
---
{{- end}}
`

const profileTemplate = `
=== Store Profile ===

Name:    {{if .Name}}{{.Name}}{{else}}(not set){{end}}
Tagline: {{if .Tagline}}{{.Tagline}}{{else}}(not set){{end}}
{{- if .Links }}
Links:
{{- range $name, $url := .Links }}
  {{$name}}: {{$url}}
{{- end}}
{{- end}}
{{- if .Description }}

Description:
---
{{.Description}}
---
{{- end}}
`

const historyTemplate = `
{{- if .}}
Recent sync history:
{{- range .}}
  {{date .Timestamp}}  {{printf "%-4s" .Direction}}  {{.ProductsSynced}} record(s)
{{- end}}
{{- else}}
No sync history yet.
{{- end}}
`
