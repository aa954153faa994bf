package optimizer

import (
	"sort"

	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// SelectCluster greedily picks tables by descending capacity until their
// seats cover party. Ties keep the input order. ok is false when even all
// tables together fall short.
func SelectCluster(tables []model.Table, party int) (ids []string, k int, ok bool) {
	sorted := make([]model.Table, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Capacity() > sorted[j].Capacity() })

	seats := 0
	for _, t := range sorted {
		ids = append(ids, t.ID)
		seats += t.Capacity()
		if seats >= party {
			return ids, len(ids), true
		}
	}
	return nil, 0, false
}
