package chunker

const bytesPerMB = 1024 * 1024

// minSpan drops a trailing sliver shorter than a millisecond left over by
// floating point division
const minSpan = 1e-3

// Span is one planned chunk on the original timeline, in seconds
type Span struct {
	Index    int
	Start    float64
	Duration float64
}

// NeedsSplit reports whether a file of sizeBytes exceeds thresholdMB
func NeedsSplit(sizeBytes int64, thresholdMB float64) bool {
	return float64(sizeBytes)/bytesPerMB > thresholdMB
}

// Plan partitions [0, total) into consecutive spans of split seconds.
// Indices are dense from 0 and the last span may be shorter.
func Plan(total, split float64) []Span {
	if total <= 0 || split <= 0 {
		return nil
	}

	var spans []Span
	for i := 0; ; i++ {
		start := float64(i) * split
		if total-start < minSpan {
			break
		}
		spans = append(spans, Span{
			Index:    i,
			Start:    start,
			Duration: min(split, total-start),
		})
	}
	return spans
}
