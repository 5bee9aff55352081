package blob

// SmallSortCutoff is the length below which items are insertion-sorted
// directly rather than radix-partitioned.
const SmallSortCutoff = 1024

// Sort performs an in-place, unstable sort of items into Less() order.
// If idx is non-nil it must have the same length as items; it is
// permuted in lockstep so idx[i] names the original position of
// items[i] after the sort.
//
// Strategy mirrors the width-driven dispatch of the reference
// implementation's Blobsort: short slices use a guarded insertion sort
// with a move-min-to-front sentinel; wide blobs (>8 bytes) use an
// in-place MSB ("American flag") radix sort recursing byte by byte;
// narrow blobs (<=8 bytes, i.e. 32- or 64-bit digests) use an
// out-of-place LSB radix sort that skips any pass whose byte is
// constant across every item.
func Sort(items []Blobber, idx []int) {
	n := len(items)
	if n <= 1 {
		return
	}
	width := items[0].Len()
	if n <= SmallSortCutoff {
		insertionSort(items, idx, 0, n)
		return
	}
	if width > 8 {
		msbRadixSort(items, idx, 0, n, width-1)
	} else {
		lsbRadixSort(items, idx, width)
	}
}

// insertionSort sorts items[lo:hi] (and idx[lo:hi] in lockstep). It first
// moves the minimum element to items[lo], which then acts as a sentinel
// so the main insertion loop never needs a lower-bound check.
func insertionSort(items []Blobber, idx []int, lo, hi int) {
	if hi-lo <= 1 {
		return
	}
	minAt := lo
	for i := lo + 1; i < hi; i++ {
		if items[i].Less(items[minAt]) {
			minAt = i
		}
	}
	if minAt != lo {
		items[lo], items[minAt] = items[minAt], items[lo]
		if idx != nil {
			idx[lo], idx[minAt] = idx[minAt], idx[lo]
		}
	}

	for i := lo + 1; i < hi; i++ {
		key := items[i]
		var keyIdx int
		if idx != nil {
			keyIdx = idx[i]
		}
		j := i
		for key.Less(items[j-1]) {
			items[j] = items[j-1]
			if idx != nil {
				idx[j] = idx[j-1]
			}
			j--
		}
		items[j] = key
		if idx != nil {
			idx[j] = keyIdx
		}
	}
}

// msbRadixSort partitions items[lo:hi] by the byte at byteIndex (0 =
// least significant) and recurses into each bucket for the next byte
// down, devolving to insertionSort once a block is small enough.
func msbRadixSort(items []Blobber, idx []int, lo, hi, byteIndex int) {
	n := hi - lo
	if n <= 1 {
		return
	}
	if n <= SmallSortCutoff {
		insertionSort(items, idx, lo, hi)
		return
	}
	if byteIndex < 0 {
		return
	}

	var count [256]int
	for i := lo; i < hi; i++ {
		count[items[i].ByteAt(byteIndex)]++
	}
	if count[items[lo].ByteAt(byteIndex)] == n {
		// every item shares this byte; no partitioning work to do here.
		msbRadixSort(items, idx, lo, hi, byteIndex-1)
		return
	}

	var bucketStart, bucketEnd [256]int
	sum := 0
	for v := 0; v < 256; v++ {
		bucketStart[v] = sum
		sum += count[v]
		bucketEnd[v] = sum
	}
	next := bucketStart

	// In-place American-flag permutation: repeatedly pull the item
	// sitting in front of bucket v's cursor; if it already belongs
	// there, advance; otherwise swap it directly into its own bucket's
	// cursor slot and retry the same slot.
	for v := 0; v < 256; v++ {
		for next[v] < bucketEnd[v] {
			i := lo + next[v]
			want := int(items[i].ByteAt(byteIndex))
			if want == v {
				next[v]++
				continue
			}
			j := lo + next[want]
			items[i], items[j] = items[j], items[i]
			if idx != nil {
				idx[i], idx[j] = idx[j], idx[i]
			}
			next[want]++
		}
	}

	for v := 0; v < 256; v++ {
		bs, be := lo+bucketStart[v], lo+bucketEnd[v]
		if be-bs > 1 {
			msbRadixSort(items, idx, bs, be, byteIndex-1)
		}
	}
}

// lsbRadixSort sorts all of items least-significant-byte first using
// width out-of-place counting passes, skipping any pass whose byte
// value is constant across every item.
func lsbRadixSort(items []Blobber, idx []int, width int) {
	n := len(items)
	if n <= 1 {
		return
	}

	bufB := make([]Blobber, n)
	var idxB []int
	if idx != nil {
		idxB = make([]int, n)
	}

	cur, other := items, bufB
	curIdx, otherIdx := idx, idxB
	inItems := true

	for pass := 0; pass < width; pass++ {
		var count [256]int
		for i := 0; i < n; i++ {
			count[cur[i].ByteAt(pass)]++
		}
		if count[cur[0].ByteAt(pass)] == n {
			continue
		}

		var cursor [256]int
		sum := 0
		for v := 0; v < 256; v++ {
			cursor[v] = sum
			sum += count[v]
		}
		for i := 0; i < n; i++ {
			v := cur[i].ByteAt(pass)
			p := cursor[v]
			cursor[v]++
			other[p] = cur[i]
			if idx != nil {
				otherIdx[p] = curIdx[i]
			}
		}

		cur, other = other, cur
		curIdx, otherIdx = otherIdx, curIdx
		inItems = !inItems
	}

	if !inItems {
		copy(items, cur)
		if idx != nil {
			copy(idx, curIdx)
		}
	}
}
