package analytics

// Group is a non-empty ordered run of records sharing a resolved entity
// key. Records appear in their original input order.
type Group struct {
	Key     string
	Records []Record
}

// GroupBy partitions records by entity key. Each record's key is the
// first non-empty value among the candidate field names, falling back to
// defaultKey, so the partition is always total: every record lands in
// exactly one group and none are dropped or duplicated.
//
// Groups are returned in first-seen key order, which makes downstream
// iteration (and tie-breaks that depend on it) deterministic for a given
// input order. Empty input yields an empty slice.
func GroupBy(records []Record, keyCandidates []string, defaultKey string) []Group {
	index := make(map[string]int, len(records))
	var groups []Group

	for _, rec := range records {
		key := rec.Resolve(keyCandidates, defaultKey)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}
