package handlers

import (
	_ "embed"
	"net/http"
)

// openapiDocument describes every homekeep route, including the
// seed result, task view and equipment schemas.
//
//go:embed openapi.yaml
var openapiDocument []byte

// docsPage keeps the Bearer token across reloads since every /api/v1
// route needs it.
const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>homekeep API</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/openapi.yaml",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis],
      docExpansion: "list",
      filter: true,
      persistAuthorization: true,
    });
  </script>
</body>
</html>`

// OpenAPIDocument serves the embedded OpenAPI description of the homekeep
// API. It is not cached so a redeploy shows new routes immediately.
func OpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(openapiDocument)
}

// Docs serves a Swagger UI page for trying the API from a browser.
func Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(docsPage))
}
