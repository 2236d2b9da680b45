package renderers

import "sort"

// lineStarts returns the byte offset of the start of each line in source.
// Used to translate goldmark's byte-offset-based Lines() segments back to
// 0-based source line numbers for the prettifier's line_mapping.
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset finds the 0-based line number containing byte offset off.
func lineForOffset(starts []int, off int) int {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > off })
	return i - 1
}
