package capability

import (
	"io"
	"text/template"
)

var headerTemplate = template.Must(template.New(`lwipopts.h`).Parse(`/* Code generated by stackboot. DO NOT EDIT. */
/* capability fingerprint: {{.Fingerprint}} */

#ifndef LWIPOPTS_H
#define LWIPOPTS_H
{{range .Settings}}
#define {{.Flag.Name}} {{.Value}}{{end}}
{{- if .Debug}}

#define LWIP_DEBUG 1
#define LWIP_DBG_MIN_LEVEL LWIP_DBG_LEVEL_ALL
{{range .Channels}}
#define {{.Name}} LWIP_DBG_ON{{end}}
{{- end}}

#endif /* LWIPOPTS_H */
`))

// WriteHeader renders the set as an lwipopts.h C header, defining every flag
// in registry order. If the diagnostic master switch is on, global debugging
// is enabled at the lowest level, along with every [DebugChannel].
func (x *Set) WriteHeader(w io.Writer) error {
	return headerTemplate.Execute(w, struct {
		Fingerprint string
		Settings    []Setting
		Debug       bool
		Channels    []DebugChannel
	}{
		Fingerprint: x.Fingerprint(),
		Settings:    x.Flags(),
		Debug:       x.Debug(),
		Channels:    DebugChannels(),
	})
}
