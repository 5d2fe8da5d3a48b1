package formats

import "strings"

// Format is a supported resource format
type Format struct {
	Name          string
	MediaTypes    []string
	OpennessScore int
	Archive       bool
}

var supported = []Format{
	{Name: "pdf", MediaTypes: []string{"application/pdf"}, OpennessScore: 1},
	{Name: "doc", MediaTypes: []string{"application/msword"}, OpennessScore: 1},
	{Name: "docx", MediaTypes: []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, OpennessScore: 1},
	{Name: "odt", MediaTypes: []string{"application/vnd.oasis.opendocument.text"}, OpennessScore: 1},
	{Name: "rtf", MediaTypes: []string{"application/rtf", "text/rtf"}, OpennessScore: 1},
	{Name: "jpg", MediaTypes: []string{"image/jpeg"}, OpennessScore: 1},
	{Name: "png", MediaTypes: []string{"image/png"}, OpennessScore: 1},
	{Name: "html", MediaTypes: []string{"text/html", "application/xhtml+xml"}, OpennessScore: 1},
	{Name: "xls", MediaTypes: []string{"application/vnd.ms-excel"}, OpennessScore: 2},
	{Name: "xlsx", MediaTypes: []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}, OpennessScore: 2},
	{Name: "ods", MediaTypes: []string{"application/vnd.oasis.opendocument.spreadsheet"}, OpennessScore: 3},
	{Name: "csv", MediaTypes: []string{"text/csv", "application/csv"}, OpennessScore: 3},
	{Name: "tsv", MediaTypes: []string{"text/tab-separated-values"}, OpennessScore: 3},
	{Name: "json", MediaTypes: []string{"application/json"}, OpennessScore: 3},
	{Name: "geojson", MediaTypes: []string{"application/geo+json"}, OpennessScore: 3},
	{Name: "xml", MediaTypes: []string{"application/xml", "text/xml"}, OpennessScore: 3},
	{Name: "shp", MediaTypes: []string{"application/x-esri-shape"}, OpennessScore: 3},
	{Name: "txt", MediaTypes: []string{"text/plain"}, OpennessScore: 3},
	{Name: "rdf", MediaTypes: []string{"application/rdf+xml"}, OpennessScore: 4},
	{Name: "ttl", MediaTypes: []string{"text/turtle"}, OpennessScore: 4},
	{Name: "nt", MediaTypes: []string{"application/n-triples"}, OpennessScore: 4},
	{Name: "jsonld", MediaTypes: []string{"application/ld+json"}, OpennessScore: 4},
	{Name: "zip", MediaTypes: []string{"application/zip", "application/x-zip-compressed"}, OpennessScore: 1, Archive: true},
	{Name: "gz", MediaTypes: []string{"application/gzip", "application/x-gzip"}, OpennessScore: 1, Archive: true},
	{Name: "7z", MediaTypes: []string{"application/x-7z-compressed"}, OpennessScore: 1, Archive: true},
	{Name: "rar", MediaTypes: []string{"application/vnd.rar", "application/x-rar-compressed"}, OpennessScore: 1, Archive: true},
}

var (
	byName      = map[string]*Format{}
	byMediaType = map[string]*Format{}
)

// aliases maps alternative extensions to their supported format
var aliases = map[string]string{
	"jpeg":  "jpg",
	"htm":   "html",
	"n3":    "ttl",
	"owl":   "rdf",
	"tgz":   "gz",
	"gzip":  "gz",
	"xhtml": "html",
}

func init() {
	for i := range supported {
		f := &supported[i]
		byName[f.Name] = f
		for _, mt := range f.MediaTypes {
			byMediaType[mt] = f
		}
	}
}

// Lookup returns the supported format named name, case-insensitively
func Lookup(name string) (*Format, bool) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	f, ok := byName[name]
	return f, ok
}

// ByMediaType returns the supported format for a media type, ignoring
// parameters such as charset
func ByMediaType(mediaType string) (*Format, bool) {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	f, ok := byMediaType[strings.ToLower(strings.TrimSpace(mediaType))]
	return f, ok
}

// OpennessScore returns the openness score of a format, 0 when unknown
func OpennessScore(name string) int {
	if f, ok := Lookup(name); ok {
		return f.OpennessScore
	}
	return 0
}

// IsTabular reports whether name is a spreadsheet-like format
func IsTabular(name string) bool {
	switch strings.ToLower(name) {
	case "csv", "xls", "xlsx":
		return true
	}
	return false
}
