package workbook

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/table"
)

// Cluster groups tables into workbooks. Each round walks the classes in
// IRI order; every class not yet covered picks one of its remaining tables
// whose classes are all uncovered at random, and the classes of that table
// count as covered. Rounds repeat
// until every table is placed, so no two tables of a cluster share a class.
func Cluster(tables []*table.Table, rng *rand.Rand) [][]*table.Table {
	byClass := make(map[kg.Term][]*table.Table)
	var classes []kg.Term
	for _, t := range tables {
		for _, c := range t.Class.Classes() {
			if _, ok := byClass[c]; !ok {
				classes = append(classes, c)
			}
			byClass[c] = append(byClass[c], t)
		}
	}
	kg.SortTerms(classes)

	remaining := len(tables)
	var clusters [][]*table.Table
	for remaining > 0 {
		var cluster []*table.Table
		covered := make(map[kg.Term]bool)
		for _, c := range classes {
			if covered[c] || len(byClass[c]) == 0 {
				continue
			}
			cands := slices.DeleteFunc(slices.Clone(byClass[c]), func(t *table.Table) bool {
				return slices.ContainsFunc(t.Class.Classes(), func(x kg.Term) bool { return covered[x] })
			})
			if len(cands) == 0 {
				continue
			}
			picked := cands[rng.IntN(len(cands))]
			for _, pc := range picked.Class.Classes() {
				covered[pc] = true
				byClass[pc] = slices.DeleteFunc(byClass[pc], func(t *table.Table) bool { return t == picked })
			}
			cluster = append(cluster, picked)
			remaining--
		}
		if len(cluster) == 0 {
			break
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}
