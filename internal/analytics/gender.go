package analytics

import "strings"

// Canonical demographic buckets reported by the analytics view.
const (
	BucketMale   = "male"
	BucketFemale = "female"
)

// genderVocabulary maps lower-cased surface forms of guest gender values
// to canonical buckets.  Booking forms are localized, so the same bucket
// arrives in several languages (English, French, Spanish, Hindi, German,
// Italian, Japanese).  Extending a bucket means adding a row here; the
// aggregation logic never changes.
var genderVocabulary = map[string]string{
	"male":      BucketMale,
	"masculin":  BucketMale,
	"masculino": BucketMale,
	"पुरुष":     BucketMale,
	"männlich":  BucketMale,
	"maschio":   BucketMale,
	"男性":        BucketMale,

	"female":   BucketFemale,
	"féminin":  BucketFemale,
	"femenino": BucketFemale,
	"महिला":    BucketFemale,
	"weiblich": BucketFemale,
	"femmina":  BucketFemale,
	"女性":       BucketFemale,
}

// classifyGender resolves a raw gender string to a canonical bucket.
// Unrecognized values report ok = false and are excluded from both
// buckets; their guests still count toward the quantity-based total.
func classifyGender(raw string) (bucket string, ok bool) {
	bucket, ok = genderVocabulary[strings.ToLower(strings.TrimSpace(raw))]
	return bucket, ok
}
