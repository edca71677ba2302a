package analytics

// FieldParticipantID is the field name under which the resolved entity
// key is re-attached to extracted domain records.
const FieldParticipantID = "participant_id"

// ExtractDomain pulls the allow-listed fields out of a record and
// re-attaches the resolved entity key under FieldParticipantID. The
// second return is false when the record carries none of the allow-listed
// fields — callers skip such records, so domain analyses silently exclude
// observations that have nothing to say about the domain.
func ExtractDomain(rec Record, allowList, keyCandidates []string, defaultKey string) (Record, bool) {
	var out Record
	for _, name := range allowList {
		if v := rec.Get(name); !v.IsAbsent() {
			out.Set(name, v)
		}
	}
	if out.Len() == 0 {
		return Record{}, false
	}
	out.Set(FieldParticipantID, String(rec.Resolve(keyCandidates, defaultKey)))
	return out, true
}

// ExtractAll applies ExtractDomain across a record collection, keeping
// only records that contribute at least one domain field.
func ExtractAll(records []Record, allowList, keyCandidates []string, defaultKey string) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if extracted, ok := ExtractDomain(rec, allowList, keyCandidates, defaultKey); ok {
			out = append(out, extracted)
		}
	}
	return out
}
