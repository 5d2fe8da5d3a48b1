package catalog

// Namespaces of the DCAT-AP vocabularies
const (
	NSRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSDCAT   = "http://www.w3.org/ns/dcat#"
	NSDCT    = "http://purl.org/dc/terms/"
	NSDCATAP = "http://data.europa.eu/r5r/"
	NSFOAF   = "http://xmlns.com/foaf/0.1/"
	NSXSD    = "http://www.w3.org/2001/XMLSchema#"
)

// Terms used by the catalog and the DCAT harvester
const (
	RDFType = NSRDF + "type"

	DCATCatalog      = NSDCAT + "Catalog"
	DCATDataset      = NSDCAT + "Dataset"
	DCATDistribution = NSDCAT + "Distribution"
	DCATDatasetProp  = NSDCAT + "dataset"
	DCATDistProp     = NSDCAT + "distribution"
	DCATKeyword      = NSDCAT + "keyword"
	DCATTheme        = NSDCAT + "theme"
	DCATAccessURL    = NSDCAT + "accessURL"
	DCATDownloadURL  = NSDCAT + "downloadURL"
	DCATMediaType    = NSDCAT + "mediaType"
	DCATLandingPage  = NSDCAT + "landingPage"

	DCTTitle       = NSDCT + "title"
	DCTDescription = NSDCT + "description"
	DCTIdentifier  = NSDCT + "identifier"
	DCTIssued      = NSDCT + "issued"
	DCTModified    = NSDCT + "modified"
	DCTPublisher   = NSDCT + "publisher"
	DCTLicense     = NSDCT + "license"
	DCTFormat      = NSDCT + "format"

	DCATAPHVDCategory = NSDCATAP + "hvdCategory"

	FOAFAgent = NSFOAF + "Agent"
	FOAFName  = NSFOAF + "name"

	XSDDateTime = NSXSD + "dateTime"
)

// Prefixes used when writing Turtle
var Prefixes = map[string]string{
	NSRDF:    "rdf",
	NSDCAT:   "dcat",
	NSDCT:    "dct",
	NSDCATAP: "dcatap",
	NSFOAF:   "foaf",
	NSXSD:    "xsd",
}
