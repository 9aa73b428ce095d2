package fhirvalue

import "strings"

// choiceTypeSuffixes lists every FHIR type that can appear as a suffix
// on a choice element key (value[x] -> valueString, valueQuantity, ...).
// Adapted from the teacher's walker.ChoiceTypeSuffixes; unlike the
// teacher we have no StructureDefinition index to confirm the suffix is
// actually declared for this element, so resolution here is purely
// structural: whichever suffixed key is present in the JSON wins.
var choiceTypeSuffixes = []string{
	// Primitives
	"String", "Boolean", "Integer", "Integer64", "Decimal", "DateTime",
	"Date", "Time", "Instant", "Uri", "Url", "Canonical", "Code", "Id",
	"Markdown", "Base64Binary", "Oid", "Uuid", "PositiveInt",
	"UnsignedInt",

	// Complex types
	"Address", "Age", "Annotation", "Attachment", "CodeableConcept",
	"CodeableReference", "Coding", "ContactDetail", "ContactPoint",
	"Contributor", "Count", "DataRequirement", "Distance", "Dosage",
	"Duration", "Expression", "HumanName", "Identifier", "Meta", "Money",
	"MoneyQuantity", "Narrative", "ParameterDefinition", "Period",
	"Quantity", "Range", "Ratio", "RatioRange", "Reference",
	"RelatedArtifact", "SampledData", "Signature", "SimpleQuantity",
	"Timing", "TriggerDefinition", "UsageContext",
}

// primitiveChoiceTypes is the subset of choiceTypeSuffixes whose FHIR
// type name is lowerCamel rather than the PascalCase suffix itself
// (valueString -> type "string", but valueQuantity -> type "Quantity").
var primitiveChoiceTypes = map[string]bool{
	"String": true, "Boolean": true, "Integer": true, "Integer64": true,
	"Decimal": true, "DateTime": true, "Date": true, "Time": true,
	"Instant": true, "Uri": true, "Url": true, "Canonical": true,
	"Code": true, "Id": true, "Markdown": true, "Base64Binary": true,
	"Oid": true, "Uuid": true, "PositiveInt": true, "UnsignedInt": true,
}

// resolveChoiceField scans obj for a key made of baseName followed by a
// known choice-type suffix. It returns the first match, tagged with the
// resolved FHIR type name. If more than one choice-suffixed key happens
// to match the same baseName (which a well-formed FHIR resource never
// contains), the first suffix in choiceTypeSuffixes order wins.
func resolveChoiceField(obj map[string]any, baseName string) (Node, bool) {
	for _, suffix := range choiceTypeSuffixes {
		key := baseName + suffix
		v, ok := obj[key]
		if !ok {
			continue
		}
		typeName := suffix
		if primitiveChoiceTypes[suffix] {
			typeName = lowerFirst(suffix)
		}
		return New(v, typeName), true
	}
	return Nil, false
}

// choiceKeyType reports the FHIR type name a choice-suffixed key
// resolves to, given the element's declared base name (e.g. "value").
// Used by ofType() and by schema inference to check whether a concrete
// key belongs to a choice family without re-deriving the suffix table.
func choiceKeyType(baseName, key string) (typeName string, ok bool) {
	if !strings.HasPrefix(key, baseName) {
		return "", false
	}
	suffix := key[len(baseName):]
	for _, s := range choiceTypeSuffixes {
		if s != suffix {
			continue
		}
		if primitiveChoiceTypes[s] {
			return lowerFirst(s), true
		}
		return s, true
	}
	return "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
