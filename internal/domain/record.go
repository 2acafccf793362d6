package domain

import "unicode"

// Category is a subject area in the agency's dataset catalog.
type Category string

const (
	CategoryKependudukan    Category = "kependudukan"
	CategoryEkonomi         Category = "ekonomi"
	CategoryPendidikan      Category = "pendidikan"
	CategoryKesehatan       Category = "kesehatan"
	CategoryKetenagakerjaan Category = "ketenagakerjaan"
	CategorySosial          Category = "sosial"
)

// Categories returns every known category in presentation order.
func Categories() []Category {
	return []Category{
		CategoryKependudukan,
		CategoryEkonomi,
		CategoryPendidikan,
		CategoryKesehatan,
		CategoryKetenagakerjaan,
		CategorySosial,
	}
}

// Label returns the category name as displayed to users.
func (c Category) Label() string {
	r := []rune(string(c))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// DatasetRecord is a single published dataset in the catalog. Records are
// immutable for the lifetime of the process.
type DatasetRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Category    Category `json:"category" yaml:"category"`
}

// Source is a citation pair surfaced alongside a composed reply.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
