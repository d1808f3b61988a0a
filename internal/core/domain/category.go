// internal/core/domain/category.go
package domain

import "fmt"

// Category identifica cada tipo de lookup del reconocimiento. El conjunto es
// cerrado y su orden es el orden del informe.
type Category string

const (
	CategoryWhois      Category = "whois"
	CategoryDNS        Category = "dns"
	CategoryGeo        Category = "geo"
	CategorySSL        Category = "ssl"
	CategoryHeaders    Category = "headers"
	CategoryRobots     Category = "robots"
	CategoryTech       Category = "tech"
	CategoryMeta       Category = "meta"
	CategoryAdminPaths Category = "admin_paths"
)

var categoryOrder = []Category{
	CategoryWhois,
	CategoryDNS,
	CategoryGeo,
	CategorySSL,
	CategoryHeaders,
	CategoryRobots,
	CategoryTech,
	CategoryMeta,
	CategoryAdminPaths,
}

var categoryTitles = map[Category]string{
	CategoryWhois:      "WHOIS",
	CategoryDNS:        "DNS Records",
	CategoryGeo:        "IP Geolocation",
	CategorySSL:        "SSL Certificate",
	CategoryHeaders:    "HTTP Headers",
	CategoryRobots:     "Robots.txt & Sitemap.xml",
	CategoryTech:       "Tech Stack",
	CategoryMeta:       "HTML Metadata",
	CategoryAdminPaths: "Admin Panel Finder",
}

// Las categorías que necesitan un servidor web respondiendo en el objetivo.
var webCategories = map[Category]bool{
	CategorySSL:        true,
	CategoryHeaders:    true,
	CategoryRobots:     true,
	CategoryTech:       true,
	CategoryMeta:       true,
	CategoryAdminPaths: true,
}

// Categories retorna todas las categorías en orden de informe.
func Categories() []Category {
	return append([]Category{}, categoryOrder...)
}

// ParseCategory convierte una clave ("dns", "admin_paths") en Category.
func ParseCategory(key string) (Category, error) {
	c := Category(key)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, key)
	}
	return c, nil
}

// IsValid verifica si la categoría pertenece al conjunto conocido.
func (c Category) IsValid() bool {
	_, ok := categoryTitles[c]
	return ok
}

// Title retorna el título legible usado en el informe.
func (c Category) Title() string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return string(c)
}

// Index retorna la posición de la categoría en el informe, o -1.
func (c Category) Index() int {
	for i, cat := range categoryOrder {
		if cat == c {
			return i
		}
	}
	return -1
}

// RequiresWebServer indica si el lookup depende de HTTP/TLS en el objetivo.
func (c Category) RequiresWebServer() bool {
	return webCategories[c]
}

// String retorna la representación string de la categoría.
func (c Category) String() string {
	return string(c)
}
