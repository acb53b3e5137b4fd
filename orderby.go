package logbook

import (
	"sort"
	"strings"

	"github.com/autom8ter/logbook/util"
	"github.com/spf13/cast"
)

// OrderByDocs sorts the documents in place by the order by clauses in
// the order they are listed. Each pass is stable, so the last listed
// clause dominates the ordering and earlier clauses break its ties.
func OrderByDocs(d Documents, orderBys []OrderBy) {
	for _, orderBy := range orderBys {
		field := orderBy.Field
		if orderBy.Direction == OrderByDirectionDesc {
			sort.SliceStable(d, func(i, j int) bool {
				return compareValues(d[i].Get(field), d[j].Get(field)) > 0
			})
		} else {
			sort.SliceStable(d, func(i, j int) bool {
				return compareValues(d[i].Get(field), d[j].Get(field)) < 0
			})
		}
	}
}

// compareValues orders two json values: null first, bools by truth,
// numbers numerically, strings lexicographically. Mismatched or
// composite types compare by their canonical json encoding.
func compareValues(this, that any) int {
	if this == nil && that == nil {
		return 0
	}
	if this == nil {
		return -1
	}
	if that == nil {
		return 1
	}
	if a, ok := this.(bool); ok {
		if b, ok := that.(bool); ok {
			switch {
			case a == b:
				return 0
			case a:
				return 1
			default:
				return -1
			}
		}
	}
	if isNumber(this) && isNumber(that) {
		a, b := cast.ToFloat64(this), cast.ToFloat64(that)
		switch {
		case a > b:
			return 1
		case a < b:
			return -1
		default:
			return 0
		}
	}
	if a, ok := this.(string); ok {
		if b, ok := that.(string); ok {
			return strings.Compare(a, b)
		}
	}
	return strings.Compare(util.JSONString(this), util.JSONString(that))
}
