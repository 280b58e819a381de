package icon

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"

	"github.com/openyolo/assetgen/theme"
)

// VectorSize is the edge length of the vector icon's view box.
const VectorSize = 1024

// VectorIDs lists the gradient and filter identifiers declared by
// the vector icon, each exactly once.
var VectorIDs = []string{"outerGradient", "innerGradient", "dropShadow", "reflection"}

const vectorTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="{{ .Size }}" height="{{ .Size }}" viewBox="0 0 {{ .Size }} {{ .Size }}"
     xmlns="http://www.w3.org/2000/svg"
     xmlns:xlink="http://www.w3.org/1999/xlink">
    <defs>
        <radialGradient id="outerGradient" cx="50%" cy="50%" r="70%" fx="30%" fy="30%">
            <stop offset="0%" stop-color="{{ .Colors.primary }}" stop-opacity="1" />
            <stop offset="100%" stop-color="{{ .Colors.primary_dark }}" stop-opacity="1" />
        </radialGradient>
        <radialGradient id="innerGradient" cx="50%" cy="50%" r="70%" fx="40%" fy="40%">
            <stop offset="0%" stop-color="{{ .Colors.primary_light }}" stop-opacity="1" />
            <stop offset="100%" stop-color="{{ .Colors.primary }}" stop-opacity="1" />
        </radialGradient>
        <filter id="dropShadow" x="-20%" y="-20%" width="140%" height="140%">
            <feGaussianBlur in="SourceAlpha" stdDeviation="15" result="blur" />
            <feOffset in="blur" dx="5" dy="5" result="offsetBlur" />
            <feComponentTransfer in="offsetBlur" result="shadow">
                <feFuncA type="linear" slope="0.2" />
            </feComponentTransfer>
            <feMerge>
                <feMergeNode in="shadow" />
                <feMergeNode in="SourceGraphic" />
            </feMerge>
        </filter>
        <filter id="reflection" x="0" y="0" width="100%" height="50%">
            <feGaussianBlur in="SourceGraphic" stdDeviation="2" result="blur" />
            <feComponentTransfer in="blur" result="highlight">
                <feFuncA type="table" tableValues="0 0.1 0.3 0.1 0" />
            </feComponentTransfer>
        </filter>
    </defs>
    <g filter="url(#dropShadow)">
        <circle cx="512" cy="512" r="450"
                fill="url(#outerGradient)"
                stroke="{{ .Colors.primary_dark }}"
                stroke-width="15" />
        <circle cx="512" cy="512" r="300"
                fill="url(#innerGradient)"
                stroke="#FFFFFF20"
                stroke-width="5" />
        <path d="M512 250 L412 450 L462 450 L512 350 L562 450 L612 450 L512 250 Z"
              fill="{{ .Colors.text_dark }}"
              filter="drop-shadow(2px 2px 4px rgba(0,0,0,0.3))"/>
        <ellipse cx="400" cy="400" rx="250" ry="120"
                 fill="white" fill-opacity="0.15"
                 transform="rotate(-30, 400, 400)"
                 filter="url(#reflection)" />
    </g>
{{- with .Caption | trim }}
    <text x="512" y="950"
          font-family="Arial, sans-serif"
          font-size="60"
          text-anchor="middle"
          fill="{{ $.Colors.text_dark }}"
          font-weight="bold">{{ . | html }}</text>
{{- end }}
</svg>
`

var vectorTmpl = template.Must(template.New("icon.svg").Funcs(sprig.TxtFuncMap()).Parse(vectorTemplate))

type vectorData struct {
	Size    int
	Colors  map[string]string
	Caption string
}

// Vector renders the vector icon with the colors of `th`.
// An empty (or blank) caption omits the text element.
func Vector(th theme.Theme, caption string) (string, error) {
	if th.IsZero() {
		th = theme.Default()
	}
	data := vectorData{
		Size:    VectorSize,
		Colors:  make(map[string]string, len(theme.Roles)),
		Caption: caption,
	}
	for _, r := range theme.Roles {
		data.Colors[string(r)] = th.Hex(r)
	}
	var sb strings.Builder
	if err := vectorTmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "rendering vector icon")
	}
	return sb.String(), nil
}
