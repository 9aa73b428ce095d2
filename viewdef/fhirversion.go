package viewdef

import (
	"strings"

	"github.com/gofhir/sqlonfhir/issue"
)

// fhirVersionPrefixes maps the accepted fhirVersion string prefixes to
// their named FHIR release, per spec §6 "FHIR version mapping".
var fhirVersionPrefixes = map[string]string{
	"3.0": "DSTU3",
	"4.0": "R4",
	"4.3": "R4B",
	"5.0": "R5",
}

// resolveFHIRVersion maps a declared fhirVersion string to its release
// name, or returns an UnsupportedFhirVersion error for an unrecognised
// prefix.
func resolveFHIRVersion(version string) (string, error) {
	for prefix, release := range fhirVersionPrefixes {
		if strings.HasPrefix(version, prefix) {
			return release, nil
		}
	}
	return "", issue.New(issue.UnsupportedFhirVersion, "unrecognised fhirVersion %q", version)
}

// validateFHIRVersions checks every declared fhirVersion entry, if any.
// A ViewDefinition with no fhirVersion list applies to any version.
func validateFHIRVersions(versions []string) error {
	for _, v := range versions {
		if _, err := resolveFHIRVersion(v); err != nil {
			return err
		}
	}
	return nil
}
