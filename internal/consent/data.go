package consent

// Record is one submitted consent. Records carry no identifier; within a
// page they are addressed by position.
type Record struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	ConsentGivenFor []string `json:"consentGivenFor"`
}

// Clone returns a deep copy so callers never share the consent slice.
func (r Record) Clone() Record {
	given := make([]string, len(r.ConsentGivenFor))
	copy(given, r.ConsentGivenFor)
	return Record{
		Name:            r.Name,
		Email:           r.Email,
		ConsentGivenFor: given,
	}
}

// CloneAll deep-copies a page of records.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Options is the catalogue offered by the submission form.
var Options = []string{
	"Receive newsletter",
	"Be shown targeted ads",
	"Contribute to anonymous visit statistics",
}
