package judgment

// Key identifies a judgment across fetches: the same document on the same date.
type Key struct {
	DocID        string
	JudgmentDate string
}

// KeyOf returns the identity key of a record.
// ok is false when the record has no document id and so no identity.
func KeyOf(r *Record) (Key, bool) {
	if r == nil || r.DocID == "" {
		return Key{}, false
	}
	return Key{DocID: r.DocID, JudgmentDate: r.JudgmentDate}, true
}

// Dedupe removes records sharing (doc_id, judgment_date), keeping the first
// occurrence and the original order. Records without a doc id are always kept.
// The input slice is not modified.
func Dedupe(records []*Record) []*Record {
	seen := make(map[Key]struct{}, len(records))
	unique := make([]*Record, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		key, ok := KeyOf(r)
		if !ok {
			unique = append(unique, r)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
