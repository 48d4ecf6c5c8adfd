package ingest

import (
	"sort"
	"strings"

	"newspipe/internal/core"
	"newspipe/internal/logger"
)

// ExtractRecords recovers candidate records from decoded text. Strategies
// run in order, stopping at the first that yields at least one record:
//
//  1. container-key merge over the parsed value sequence
//  2. nested-container recursion for containers holding non-record lists
//  3. a lone object with no qualifying container becomes one record
//  4. empty top-level list: retry with the scanning/repair decoder
//  5. recursive structural search over the whole tree
//  6. the entire raw text wrapped as a single plain-text record
//
// For non-empty input the result is never empty. With strict set, input
// that fails every parse strategy returns ErrMalformed instead of the
// plain-text fallback.
func ExtractRecords(text string, strict bool) ([]core.CandidateRecord, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, nil
	}

	values, err := ParseValues(raw)
	if err != nil {
		if strict {
			return nil, err
		}
		logger.Debug("input is not JSON, treating whole text as one plain-text record")
		return []core.CandidateRecord{plainTextRecord(raw)}, nil
	}

	items := mergeValues(values)

	// Top-level empty list: the producer may have concatenated real
	// documents after it. Retry with the scanning decoder before giving up.
	if len(items) == 0 && isEmptyList(values) {
		if rescanned, rerr := scanValues(raw); rerr == nil {
			items = mergeValues(rescanned)
		}
	}

	if len(items) == 0 {
		items = searchAnywhere(values)
	}

	if len(items) == 0 {
		if len(values) == 1 {
			if list, ok := values[0].([]any); ok {
				items = objectMembers(list)
			}
		}
	}

	if len(items) == 0 {
		// Non-empty input must never yield an empty batch.
		logger.Warn("no usable records extracted, wrapping raw text as a single record")
		items = []core.CandidateRecord{plainTextRecord(raw)}
	}
	return items, nil
}

// mergeValues collects records from the parsed value sequence: list values
// contribute their object members directly; object values contribute the
// members of their first list-valued container key (falling through to
// nested containers when those members are not record-like), or themselves
// when no container key holds a list.
func mergeValues(values []any) []core.CandidateRecord {
	var items []core.CandidateRecord
	for _, val := range values {
		switch v := val.(type) {
		case []any:
			items = append(items, objectMembers(v)...)
		case map[string]any:
			list, found := firstContainerList(v)
			if !found {
				items = append(items, v)
				continue
			}
			members := objectMembers(list)
			if len(members) > 0 && anyRecordLike(members) {
				items = append(items, members...)
				continue
			}
			for _, m := range members {
				if nested, ok := firstContainerList(m); ok {
					items = append(items, objectMembers(nested)...)
				}
			}
		}
	}
	return items
}

// searchAnywhere walks the entire parsed tree and accepts any list whose
// object members include at least one record-like object, at any depth.
// Container keys are visited first, then the remaining keys in sorted
// order, so the result is deterministic.
func searchAnywhere(values []any) []core.CandidateRecord {
	var found []core.CandidateRecord
	for _, v := range values {
		walkNode(v, &found)
	}
	return found
}

func walkNode(node any, found *[]core.CandidateRecord) {
	switch v := node.(type) {
	case []any:
		members := objectMembers(v)
		if len(members) > 0 && anyRecordLike(members) {
			*found = append(*found, members...)
			return
		}
		for _, el := range v {
			walkNode(el, found)
		}
	case map[string]any:
		for _, key := range core.ContainerKeys {
			if child, ok := v[key]; ok {
				if _, isList := child.([]any); isList {
					walkNode(child, found)
				}
			}
		}
		for _, key := range sortedKeys(v) {
			if isContainerList(v, key) {
				continue // already visited above
			}
			walkNode(v[key], found)
		}
	}
}

func isContainerList(m map[string]any, key string) bool {
	for _, ck := range core.ContainerKeys {
		if ck == key {
			_, isList := m[key].([]any)
			return isList
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// firstContainerList returns the value of the first ranked container key
// that holds a list.
func firstContainerList(m map[string]any) ([]any, bool) {
	for _, key := range core.ContainerKeys {
		if list, ok := m[key].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func objectMembers(list []any) []core.CandidateRecord {
	var out []core.CandidateRecord
	for _, el := range list {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func anyRecordLike(records []core.CandidateRecord) bool {
	for _, r := range records {
		if core.IsRecordLike(r) {
			return true
		}
	}
	return false
}

func isEmptyList(values []any) bool {
	if len(values) == 0 {
		return false
	}
	list, ok := values[0].([]any)
	return ok && len(list) == 0
}

func plainTextRecord(raw string) core.CandidateRecord {
	return core.CandidateRecord{"title": "", "text": raw}
}
