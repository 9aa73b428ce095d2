// Package specs provides embedded reference data used for missing
// column-type inference (spec §9 "Automatic type derivation when type
// is absent").
package specs

import (
	"embed"
	"encoding/json"
	"sync"
)

//go:embed data/primitivetypes.json
var primitiveTypesFile embed.FS

var (
	primitiveTypesOnce sync.Once
	primitiveTypes     map[string]string
)

// PrimitiveTypeOf returns the declared FHIR primitive/complex type for
// resourceType + "." + elementPath (e.g. "Patient.birthDate" -> "date"),
// as recorded in the embedded lookup table. ok is false when the path
// isn't in the table; callers fall back to a default type in that case
// (viewdef/schema.go falls back to "string", matching the source
// behaviour this spec's Open Question preserves for the fallback case).
func PrimitiveTypeOf(resourceType, elementPath string) (string, bool) {
	primitiveTypesOnce.Do(loadPrimitiveTypes)
	t, ok := primitiveTypes[resourceType+"."+elementPath]
	return t, ok
}

func loadPrimitiveTypes() {
	data, err := primitiveTypesFile.ReadFile("data/primitivetypes.json")
	if err != nil {
		primitiveTypes = map[string]string{}
		return
	}
	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		primitiveTypes = map[string]string{}
		return
	}
	primitiveTypes = table
}
