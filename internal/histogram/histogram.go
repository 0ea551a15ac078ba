// Package histogram assigns entities to fixed-boundary buckets by a summed
// numeric attribute. Boundaries are a fixed configuration table rather than
// inferred from data, so distributions stay comparable across games and
// time windows.
package histogram

// Boundary is the inclusive lower bound of one bucket. Boundaries must be
// ascending and start at 0; the final bucket is open-ended.
type Boundary struct {
	Min   int64
	Label string
}

// Bucket is one interval of the resulting distribution.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PlaytimeBoundaries is the fixed bucket table for total playtime seconds
// per user.
var PlaytimeBoundaries = []Boundary{
	{Min: 0, Label: "<30m"},
	{Min: 1800, Label: "30m-2h"},
	{Min: 7200, Label: "2-10h"},
	{Min: 36000, Label: "10-50h"},
	{Min: 180000, Label: "50h+"},
}

// Distribute counts entities per bucket. Every entity falls into exactly
// one bucket: the last boundary whose Min is at or below its value.
// Entities with value 0 land in the first bucket rather than being
// excluded, so the bucket counts always sum to the number of entities.
func Distribute(values map[string]int64, boundaries []Boundary) []Bucket {
	buckets := make([]Bucket, len(boundaries))
	for i, b := range boundaries {
		buckets[i] = Bucket{Label: b.Label}
	}

	for _, v := range values {
		idx := 0
		for i := len(boundaries) - 1; i >= 0; i-- {
			if v >= boundaries[i].Min {
				idx = i
				break
			}
		}
		buckets[idx].Count++
	}
	return buckets
}
