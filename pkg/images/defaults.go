// Package images resolves the placeholder picture shown for an item that the
// user did not photograph.
package images

import "strings"

const GenericDefault = "defaults/generic.jpg"

var foodDefaults = map[string]string{
	"produce": "defaults/food-produce.jpg",
	"dairy":   "defaults/food-dairy.jpg",
	"meat":    "defaults/food-meat.jpg",
	"bakery":  "defaults/food-bakery.jpg",
	"canned":  "defaults/food-canned.jpg",
	"frozen":  "defaults/food-frozen.jpg",
	"other":   "defaults/food-other.jpg",
}

var categoryDefaults = map[string]string{
	"pharma":    "defaults/pharma.jpg",
	"cosmetics": "defaults/cosmetics.jpg",
	"cleaning":  "defaults/cleaning.jpg",
	"pet":       "defaults/pet.jpg",
}

type Resolver struct {
	baseURL string
}

// NewResolver prefixes every default with baseURL, which is usually the
// public bucket or CDN root. An empty baseURL yields relative paths.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// DefaultFor maps a category and optional food subcategory to an image.
func (r *Resolver) DefaultFor(category string, subcategory *string) string {
	return r.url(DefaultPath(category, subcategory))
}

// Resolve keeps an explicit image and falls back to the category default.
func (r *Resolver) Resolve(imageURL, category string, subcategory *string) string {
	if strings.TrimSpace(imageURL) != "" {
		return imageURL
	}
	return r.DefaultFor(category, subcategory)
}

func (r *Resolver) url(path string) string {
	if r == nil || r.baseURL == "" {
		return path
	}
	return r.baseURL + "/" + path
}

func DefaultPath(category string, subcategory *string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "food" {
		if subcategory == nil {
			return GenericDefault
		}
		if path, ok := foodDefaults[strings.ToLower(strings.TrimSpace(*subcategory))]; ok {
			return path
		}
		return GenericDefault
	}
	if path, ok := categoryDefaults[category]; ok {
		return path
	}
	return GenericDefault
}
