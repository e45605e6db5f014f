package envelope

import (
	"fmt"
	"strings"
)

// Catalog holds the human-readable strings placed in envelopes.
type Catalog struct {
	OK                  string
	NotFound            string
	BadRequest          string
	InternalError       string
	MethodNotAllowed    string
	NotFoundDetail      string
	InternalErrorDetail string
	RejectedDetail      string
	InvalidBodyDetail   string
	BodyTooLargeDetail  string
	InvalidParamDetail  string // format verb receives the parameter name
}

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

var catalogs = map[string]Catalog{
	"en": {
		OK:                  "Operation successful",
		NotFound:            "Information not found",
		BadRequest:          "Invalid request, please check your information",
		InternalError:       "Internal server error",
		MethodNotAllowed:    "Method not allowed",
		NotFoundDetail:      "No information was found for the given combination of parameters",
		InternalErrorDetail: "could not reach the backing service",
		RejectedDetail:      "the request could not be processed",
		InvalidBodyDetail:   "invalid request body",
		BodyTooLargeDetail:  "request body too large",
		InvalidParamDetail:  "invalid path parameter: %s",
	},
	"es": {
		OK:                  "Operación Exitosa",
		NotFound:            "Información no encontrada",
		BadRequest:          "Petición no válida, favor de validar su información",
		InternalError:       "Error Interno del Servidor",
		MethodNotAllowed:    "Método no permitido",
		NotFoundDetail:      "No se encontró información para la combinación de parámetros indicada",
		InternalErrorDetail: "No se pudo establecer conexión con el servicio",
		RejectedDetail:      "No se pudo ejecutar de manera correcta su petición",
		InvalidBodyDetail:   "Cuerpo de la petición no válido",
		BodyTooLargeDetail:  "El cuerpo de la petición es demasiado grande",
		InvalidParamDetail:  "Parámetro de ruta no válido: %s",
	},
}

// CatalogFor returns the catalog for a locale such as "en" or "es-MX".
// Only the language part is considered.
func CatalogFor(locale string) (Catalog, bool) {
	lang := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" {
		lang = DefaultLocale
	}
	c, ok := catalogs[lang]
	return c, ok
}

// MustCatalog is like CatalogFor but panics on an unsupported locale.
// Use it once the locale has been validated.
func MustCatalog(locale string) Catalog {
	c, ok := CatalogFor(locale)
	if !ok {
		panic(fmt.Sprintf("envelope: unsupported locale %q", locale))
	}
	return c
}
