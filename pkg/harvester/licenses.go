package harvester

import "strings"

// LicenseCodes are the license codes known to the portal
var LicenseCodes = []string{
	"CC0 1.0",
	"CC BY 4.0",
	"CC BY-SA 4.0",
	"CC BY-NC 4.0",
	"CC BY-ND 4.0",
}

var ckanLicenses = map[string]string{
	"cc-zero":      "CC0 1.0",
	"cc0":          "CC0 1.0",
	"odc-pddl":     "CC0 1.0",
	"cc-by":        "CC BY 4.0",
	"cc-by-4.0":    "CC BY 4.0",
	"odc-by":       "CC BY 4.0",
	"cc-by-sa":     "CC BY-SA 4.0",
	"cc-by-sa-4.0": "CC BY-SA 4.0",
	"cc-nc":        "CC BY-NC 4.0",
	"cc-by-nc-4.0": "CC BY-NC 4.0",
	"cc-by-nd":     "CC BY-ND 4.0",
	"cc-by-nd-4.0": "CC BY-ND 4.0",
}

// IsKnownLicense reports whether code is a license of the portal
func IsKnownLicense(code string) bool {
	for _, c := range LicenseCodes {
		if c == code {
			return true
		}
	}
	return false
}

// licenseFromCKAN maps a CKAN license_id. Unknown ids are returned as
// they are and rejected by validation.
func licenseFromCKAN(id string) string {
	if code, ok := ckanLicenses[strings.ToLower(strings.TrimSpace(id))]; ok {
		return code
	}
	return id
}

// licenseFromURI maps a Creative Commons license URI
func licenseFromURI(uri string) string {
	u := strings.ToLower(strings.TrimRight(uri, "/"))
	switch {
	case strings.Contains(u, "publicdomain/zero/1.0"):
		return "CC0 1.0"
	case strings.Contains(u, "licenses/by-sa/4.0"):
		return "CC BY-SA 4.0"
	case strings.Contains(u, "licenses/by-nc/4.0"):
		return "CC BY-NC 4.0"
	case strings.Contains(u, "licenses/by-nd/4.0"):
		return "CC BY-ND 4.0"
	case strings.Contains(u, "licenses/by/4.0"):
		return "CC BY 4.0"
	}
	return uri
}
