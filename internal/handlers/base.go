package handlers

import (
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
)

// LoadTemplates registers the few HTML pages the API serves.
func LoadTemplates() multitemplate.Renderer {
	r := multitemplate.NewRenderer()
	r.AddFromString("playground.html", playgroundHTML)
	r.AddFromString("error.html", errorHTML)
	return r
}

// RenderError renders a plain error page for browsers.
func RenderError(c *gin.Context, code int, message string) {
	c.HTML(code, "error.html", gin.H{"Code": code, "Error": message})
}

const errorHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Code}}</title></head>
<body style="font-family: sans-serif;">
  <h1>{{.Code}}</h1>
  <p>{{.Error}}</p>
</body>
</html>`

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="user-scalable=no, initial-scale=1.0, minimum-scale=1.0, maximum-scale=1.0, minimal-ui">
  <title>lireddit GraphQL Playground</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css">
  <script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root"></div>
  <script>
    window.addEventListener('load', function () {
      GraphQLPlayground.init(document.getElementById('root'), {
        endpoint: '{{.Endpoint}}',
        settings: { 'request.credentials': 'include' }
      })
    })
  </script>
</body>
</html>`
