package client

import (
	"reflect"
	"sort"
)

// revert undoes one failed optimistic change on the current list cur. before and after
// are the list on either side of that change; only entries the change touched are put
// back, so changes other requests made in the meantime survive.
func revert[T any](cur, before, after []T, key func(T) string) []T {
	beforeIdx := make(map[string]int, len(before))
	for i, v := range before {
		beforeIdx[key(v)] = i
	}
	afterIdx := make(map[string]int, len(after))
	for i, v := range after {
		afterIdx[key(v)] = i
	}

	// Entries the change added go away; entries it modified get their old value back.
	out := make([]T, 0, len(cur)+len(before))
	present := make(map[string]bool, len(cur))
	for _, v := range cur {
		k := key(v)
		bi, inBefore := beforeIdx[k]
		ai, inAfter := afterIdx[k]
		if inAfter && !inBefore {
			continue
		}
		if inAfter && inBefore && !reflect.DeepEqual(before[bi], after[ai]) {
			v = before[bi]
		}
		out = append(out, v)
		present[k] = true
	}

	// Entries the change removed come back at their old index.
	for i, v := range before {
		k := key(v)
		if _, inAfter := afterIdx[k]; inAfter || present[k] {
			continue
		}
		at := i
		if at > len(out) {
			at = len(out)
		}
		out = append(out, v)
		copy(out[at+1:], out[at:])
		out[at] = v
		present[k] = true
	}

	if !reordered(after, beforeIdx, key) {
		return out
	}

	// The change moved entries around: put entries that existed before back in their
	// old relative order, leaving everything else in its slot.
	var slots []int
	var moved []T
	for i, v := range out {
		if _, ok := beforeIdx[key(v)]; ok {
			slots = append(slots, i)
			moved = append(moved, v)
		}
	}
	sort.SliceStable(moved, func(i, j int) bool {
		return beforeIdx[key(moved[i])] < beforeIdx[key(moved[j])]
	})
	for i, slot := range slots {
		out[slot] = moved[i]
	}
	return out
}

// reordered reports whether entries present on both sides changed relative order.
func reordered[T any](after []T, beforeIdx map[string]int, key func(T) string) bool {
	last := -1
	for _, v := range after {
		i, ok := beforeIdx[key(v)]
		if !ok {
			continue
		}
		if i < last {
			return true
		}
		last = i
	}
	return false
}
