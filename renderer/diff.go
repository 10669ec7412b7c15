package renderer

import (
	"slices"

	"github.com/delaneyj/vdomparty/vnode"
)

// anchorAfter is the host node new content at position i of c2 goes before.
func anchorAfter(c2 []*vnode.Node, i int, parentAnchor vnode.HostNode) vnode.HostNode {
	if i+1 < len(c2) {
		return c2[i+1].El
	}
	return parentAnchor
}

// fastDiff trims the common prefix and suffix, then matches the middle by
// key and moves only the nodes off the longest increasing subsequence of
// their old positions.
func (r *Renderer) fastDiff(c1, c2 []*vnode.Node, container, parentAnchor vnode.HostNode, parent *Instance) {
	i := 0
	e1, e2 := len(c1)-1, len(c2)-1

	for i <= e1 && i <= e2 && vnode.SameType(c1[i], c2[i]) {
		r.patch(c1[i], c2[i], container, nil, parent)
		i++
	}
	for i <= e1 && i <= e2 && vnode.SameType(c1[e1], c2[e2]) {
		r.patch(c1[e1], c2[e2], container, nil, parent)
		e1--
		e2--
	}

	switch {
	case i > e1:
		if i <= e2 {
			anchor := anchorAfter(c2, e2, parentAnchor)
			for ; i <= e2; i++ {
				r.patch(nil, c2[i], container, anchor, parent)
			}
		}
		return
	case i > e2:
		for ; i <= e1; i++ {
			r.unmount(c1[i], parent, true)
		}
		return
	}

	s1, s2 := i, i
	keyToNewIndex := map[string]int{}
	for j := s2; j <= e2; j++ {
		if k := c2[j].Key; k != "" {
			keyToNewIndex[k] = j
		}
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	moved := false
	maxNewIndexSoFar := 0
	// source[new position] = old index, -1 for nodes with no old match.
	source := make([]int, toBePatched)
	for j := range source {
		source[j] = -1
	}

	for oi := s1; oi <= e1; oi++ {
		prev := c1[oi]
		if patched >= toBePatched {
			r.unmount(prev, parent, true)
			continue
		}

		// Past the common ends, nodes are matched by key only.
		newIndex := -1
		if prev.Key != "" {
			if j, ok := keyToNewIndex[prev.Key]; ok {
				newIndex = j
			}
		}

		if newIndex == -1 {
			r.unmount(prev, parent, true)
			continue
		}
		source[newIndex-s2] = oi
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prev, c2[newIndex], container, nil, parent)
		patched++
	}

	var seq []int
	if moved {
		seq = LongestIncreasingSubsequence(source)
	}
	j := len(seq) - 1
	for k := toBePatched - 1; k >= 0; k-- {
		idx := s2 + k
		next := c2[idx]
		anchor := anchorAfter(c2, idx, parentAnchor)
		switch {
		case source[k] == -1:
			r.patch(nil, next, container, anchor, parent)
		case !moved:
		case j < 0 || k != seq[j]:
			r.move(next, container, anchor)
		default:
			j--
		}
	}
}

// LongestIncreasingSubsequence returns the positions in arr of one longest
// strictly increasing subsequence, skipping -1 entries.
func LongestIncreasingSubsequence(arr []int) []int {
	prev := make([]int, len(arr))
	var result []int
	for i, v := range arr {
		if v == -1 {
			continue
		}
		if n := len(result); n == 0 || arr[result[n-1]] < v {
			if n > 0 {
				prev[i] = result[n-1]
			}
			result = append(result, i)
			continue
		}
		lo, hi := 0, len(result)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[result[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if v < arr[result[lo]] {
			if lo > 0 {
				prev[i] = result[lo-1]
			}
			result[lo] = i
		}
	}

	n := len(result)
	if n == 0 {
		return nil
	}
	seq := make([]int, n)
	k := result[n-1]
	for x := n - 1; x >= 0; x-- {
		seq[x] = k
		k = prev[k]
	}
	return seq
}

// doubleEndedDiff compares the heads and tails of both lists each step,
// falling back to a key lookup when none of the four pairs match.
func (r *Renderer) doubleEndedDiff(c1, c2 []*vnode.Node, container, parentAnchor vnode.HostNode, parent *Instance) {
	old := slices.Clone(c1)
	oldStart, oldEnd := 0, len(old)-1
	newStart, newEnd := 0, len(c2)-1

	for oldStart <= oldEnd && newStart <= newEnd {
		switch {
		case old[oldStart] == nil:
			oldStart++
		case old[oldEnd] == nil:
			oldEnd--
		case vnode.SameType(old[oldStart], c2[newStart]):
			r.patch(old[oldStart], c2[newStart], container, nil, parent)
			oldStart++
			newStart++
		case vnode.SameType(old[oldEnd], c2[newEnd]):
			r.patch(old[oldEnd], c2[newEnd], container, nil, parent)
			oldEnd--
			newEnd--
		case vnode.SameType(old[oldStart], c2[newEnd]):
			r.patch(old[oldStart], c2[newEnd], container, nil, parent)
			r.move(c2[newEnd], container, r.nextHostSibling(old[oldEnd]))
			oldStart++
			newEnd--
		case vnode.SameType(old[oldEnd], c2[newStart]):
			r.patch(old[oldEnd], c2[newStart], container, nil, parent)
			r.move(c2[newStart], container, old[oldStart].El)
			oldEnd--
			newStart++
		default:
			next := c2[newStart]
			found := -1
			for k := oldStart + 1; k < oldEnd; k++ {
				if o := old[k]; o != nil && vnode.SameType(o, next) {
					found = k
					break
				}
			}
			if found == -1 {
				r.patch(nil, next, container, old[oldStart].El, parent)
			} else {
				r.patch(old[found], next, container, nil, parent)
				old[found] = nil
				r.move(next, container, old[oldStart].El)
			}
			newStart++
		}
	}

	switch {
	case oldStart > oldEnd:
		anchor := anchorAfter(c2, newEnd, parentAnchor)
		for ; newStart <= newEnd; newStart++ {
			r.patch(nil, c2[newStart], container, anchor, parent)
		}
	case newStart > newEnd:
		for ; oldStart <= oldEnd; oldStart++ {
			if o := old[oldStart]; o != nil {
				r.unmount(o, parent, true)
			}
		}
	}
}

// simpleDiff finds each new child among the old ones and moves it when it
// appears before a child that was already placed.
func (r *Renderer) simpleDiff(c1, c2 []*vnode.Node, container, parentAnchor vnode.HostNode, parent *Instance) {
	used := make([]bool, len(c1))
	lastIndex := 0

	for i, next := range c2 {
		var anchor vnode.HostNode
		switch {
		case i > 0:
			anchor = r.nextHostSibling(c2[i-1])
		case len(c1) > 0:
			anchor = firstHostNode(c1[0])
		default:
			anchor = parentAnchor
		}

		found := false
		for j, prev := range c1 {
			if used[j] || !vnode.SameType(prev, next) {
				continue
			}
			found = true
			used[j] = true
			r.patch(prev, next, container, nil, parent)
			if j < lastIndex {
				r.move(next, container, anchor)
			} else {
				lastIndex = j
			}
			break
		}
		if !found {
			r.patch(nil, next, container, anchor, parent)
		}
	}

	for j, prev := range c1 {
		if !used[j] {
			r.unmount(prev, parent, true)
		}
	}
}

func firstHostNode(n *vnode.Node) vnode.HostNode {
	if n.Kind == vnode.KindComponent {
		if inst, ok := n.Instance.(*Instance); ok && inst.subTree != nil {
			return firstHostNode(inst.subTree)
		}
	}
	return n.El
}
