package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ludo-technologies/schemascan/domain"
)

// LabelOther is returned when no rule matches
const LabelOther = "other"

// ClassificationRule maps a name pattern to a label
type ClassificationRule struct {
	Pattern *regexp.Regexp
	Label   string
}

// FieldCategoryRules classify field names. First match wins.
var FieldCategoryRules = []ClassificationRule{
	{regexp.MustCompile(`^(meta|seo|og|twitter)|canonical|keywords|noindex`), "seo"},
	{regexp.MustCompile(`^(title|name|headline|heading|label)$`), "title"},
	{regexp.MustCompile(`^(slug|key|handle|sku|code|uid|externalid)$`), "identifier"},
	{regexp.MustCompile(`image|photo|picture|avatar|logo|icon|video|media|thumbnail|asset|file`), "media"},
	{regexp.MustCompile(`body|content|text|description|summary|excerpt|bio|richtext`), "rich-content"},
	{regexp.MustCompile(`url|link|href|website`), "link"},
	{regexp.MustCompile(`date|time|deadline|schedule|(created|updated|published|starts|ends)at$`), "datetime"},
	{regexp.MustCompile(`address|street|city|country|zip|postal|location|latitude|longitude|geo`), "location"},
	{regexp.MustCompile(`^(is|has|show|hide|enable|disable)|enabled$|visible$|featured$|active$`), "flag"},
}

// EntityPurposeRules classify entity names. First match wins.
var EntityPurposeRules = []ClassificationRule{
	{regexp.MustCompile(`^seo|seo$|metadata$|^meta`), "seo"},
	{regexp.MustCompile(`page|landing|home$|^home`), "page"},
	{regexp.MustCompile(`nav|menu|header|footer|breadcrumb`), "navigation"},
	{regexp.MustCompile(`setting|config|global|site$`), "settings"},
	{regexp.MustCompile(`categor|tag|taxonom|topic|collection`), "taxonomy"},
	{regexp.MustCompile(`author|person|people|member|team|profile|user|speaker`), "person"},
	{regexp.MustCompile(`image|media|asset|gallery|video`), "media"},
	{regexp.MustCompile(`article|post|blog|news|story`), "article"},
	{regexp.MustCompile(`product|item|offer|variant|price`), "product"},
	{regexp.MustCompile(`event|session|webinar|conference`), "event"},
}

// KnownFieldPattern is a named field combination that is an accepted modeling idiom
type KnownFieldPattern struct {
	Label  string
	Fields []string
}

// KnownFieldPatterns are combinations the pattern scan treats as already covered
var KnownFieldPatterns = []KnownFieldPattern{
	{Label: "Content Card", Fields: []string{"title", "description", "image"}},
	{Label: "SEO Metadata", Fields: []string{"metatitle", "metadescription", "ogimage", "seotitle", "seodescription", "keywords", "canonicalurl", "noindex"}},
	{Label: "Call To Action", Fields: []string{"label", "url", "link", "text", "style", "target"}},
	{Label: "Address", Fields: []string{"street", "city", "zip", "postalcode", "country", "state"}},
	{Label: "Person Profile", Fields: []string{"name", "firstname", "lastname", "bio", "avatar", "photo", "email", "role"}},
}

// NormalizeName lowercases a name and drops separators, so metaTitle,
// meta_title and meta-title compare equal
func NormalizeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// Classify returns the label of the first rule matching name, or LabelOther
func Classify(rules []ClassificationRule, name string) string {
	normalized := NormalizeName(name)
	for _, rule := range rules {
		if rule.Pattern.MatchString(normalized) {
			return rule.Label
		}
	}
	return LabelOther
}

// FieldCategory classifies a field by name
func FieldCategory(field domain.Field) string {
	return Classify(FieldCategoryRules, field.Name)
}

// EntityPurpose classifies an entity by name
func EntityPurpose(entity *domain.Entity) string {
	return Classify(EntityPurposeRules, entity.Name)
}

// CoveredByKnownPattern reports whether every field of a normalized
// combination belongs to the same known pattern, returning its label
func CoveredByKnownPattern(fields []string) (string, bool) {
	for _, pattern := range KnownFieldPatterns {
		covered := true
		for _, f := range fields {
			if !containsEntity(pattern.Fields, f) {
				covered = false
				break
			}
		}
		if covered {
			return pattern.Label, true
		}
	}
	return "", false
}

// MatchKnownPatterns lists, per known pattern, the entities carrying at
// least three of its fields (or all of them for shorter patterns)
func MatchKnownPatterns(entities []domain.Entity) []domain.KnownPatternMatch {
	matches := []domain.KnownPatternMatch{}
	for _, pattern := range KnownFieldPatterns {
		need := min(3, len(pattern.Fields))
		var members []string
		for i := range entities {
			names := make(map[string]bool, len(entities[i].Fields))
			for _, f := range entities[i].Fields {
				names[NormalizeName(f.Name)] = true
			}
			hits := 0
			for _, f := range pattern.Fields {
				if names[f] {
					hits++
				}
			}
			if hits >= need {
				members = append(members, entities[i].Name)
			}
		}
		if len(members) > 0 {
			matches = append(matches, domain.KnownPatternMatch{Label: pattern.Label, Entities: members})
		}
	}
	return matches
}
