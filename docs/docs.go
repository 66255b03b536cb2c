// Package docs contiene el documento OpenAPI de la API. Refleja las anotaciones godoc
// de los handlers en internal/interfaces/http; el test de rutas del paquete http
// verifica que no falte ninguna.
package docs

import _ "embed"

// SwaggerJSON documento swagger 2.0 servido en /docs.
//
//go:embed swagger.json
var SwaggerJSON []byte
