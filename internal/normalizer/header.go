package normalizer

// DefaultScanLimit bounds the header search to the top of the sheet.
// Bank letterhead and account summaries rarely run deeper than this.
const DefaultScanLimit = 30

// NotFound marks a detection key with no matching header column.
const NotFound = -1

// ColumnMap maps each detection key to a column index in the raw matrix,
// or NotFound. Built once per input and consumed by Normalize.
type ColumnMap map[Key]int

// LocateHeader scans at most scanLimit rows from the top of the matrix
// and returns the index of the most header-like row: the one with the
// highest count of cells matching any alias pattern. Each cell counts at
// most once. Ties keep the earliest row; a matrix where nothing matches
// falls back to row 0. A scanLimit <= 0 means DefaultScanLimit.
func LocateHeader(matrix [][]string, scanLimit int) int {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	limit := len(matrix)
	if scanLimit < limit {
		limit = scanLimit
	}
	bestRow, bestScore := 0, -1
	for i := 0; i < limit; i++ {
		score := 0
		for _, cell := range matrix[i] {
			if matchesAny(cell) {
				score++
			}
		}
		if score > bestScore {
			bestScore, bestRow = score, i
		}
	}
	return bestRow
}

// MapColumns builds the detection-key to column-index table from a header
// row. Cells are scanned left to right; every key the cell matches takes
// that column unless the key was already assigned. Duplicate headers
// never overwrite an earlier assignment, and cells matching no key are
// ignored.
func MapColumns(header []string) ColumnMap {
	cols := make(ColumnMap, len(vocabulary))
	for _, rule := range vocabulary {
		cols[rule.key] = NotFound
	}
	for idx, name := range header {
		for _, key := range Classify(name) {
			if cols[key] == NotFound {
				cols[key] = idx
			}
		}
	}
	return cols
}
