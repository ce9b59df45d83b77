package domain

// Network identifies which social platform a lookup targets.
type Network string

const (
	NetworkProfessional Network = "professional"
	NetworkMicroblog    Network = "microblog"
)

// denylisted keys are dropped from profiles regardless of value
var deniedProfileKeys = map[string]struct{}{
	"certifications": {},
}

// photo keys tolerated across enrichment-service response variants
var photoKeys = []string{"photoUrl", "PhotoUrl", "photo_url"}

// ProfileRecord is a schema-less professional profile: arbitrary
// JSON-compatible values keyed by field name.
type ProfileRecord map[string]any

// Clean returns a copy with empty-equivalent values (nil, empty string,
// empty sequence) and denylisted keys removed. Idempotent.
func (p ProfileRecord) Clean() ProfileRecord {
	cleaned := make(ProfileRecord, len(p))
	for key, value := range p {
		if _, denied := deniedProfileKeys[key]; denied {
			continue
		}
		if isEmptyValue(value) {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

// PhotoURL returns the profile photo URL, or "" when absent.
func (p ProfileRecord) PhotoURL() string {
	for _, key := range photoKeys {
		if value, ok := p[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	}
	return false
}

// Post is one original microblog post.
type Post struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Summary is the validated structured synthesis result. Facts may be
// empty but is always a sequence, never null.
type Summary struct {
	Summary string   `json:"summary"`
	Facts   []string `json:"facts"`
}
