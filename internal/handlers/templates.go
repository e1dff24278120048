package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}} - Explorations</title>
  <script>
    var GLOBALS = {{.Globals}};
  </script>
</head>
<body>
  <header>
    {{if .Email}}<span>{{.Email}}</span> <a href="{{.LogoutURL}}">Logout</a>{{else}}<a href="{{.LoginURL}}">Login</a>{{end}}
  </header>
  <main>
    <h1>{{.Title}}</h1>
    {{.Content}}
  </main>
</body>
</html>
`))

type page struct {
	Title     string
	Email     string
	LoginURL  string
	LogoutURL string
	Content   string
	Globals   template.JS
}

// globalsJS builds the GLOBALS literal. The csrf token is wrapped in
// JSON.parse so page scripts and tests read it from a fixed pattern.
func globalsJS(csrfToken string, values map[string]any) (template.JS, error) {
	var b strings.Builder
	b.WriteString("{\n")
	if csrfToken != "" {
		fmt.Fprintf(&b, "      csrf_token: JSON.parse('\\\"%s\\\"'),\n", csrfToken)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := json.Marshal(values[k])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "      %q: %s,\n", k, v)
	}
	b.WriteString("    }")
	return template.JS(b.String()), nil
}

func renderPage(c *gin.Context, p page, csrfToken string, values map[string]any) {
	globals, err := globalsJS(csrfToken, values)
	if err != nil {
		renderError(c, err)
		return
	}
	p.Globals = globals

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		renderError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
