package dataset

import (
	"github.com/bharatstats/amenities-cli/internal/model"
)

// Merge outer-joins normalized datasets on the natural key
// (region, period, area_class). Keys are kept in first-encounter order.
// When the same column exists for the same key in several sources, the
// earliest source wins; later sources only fill gaps and add new columns.
func Merge(sets ...model.Dataset) model.Dataset {
	var out model.Dataset
	at := make(map[model.Key]int)

	for _, set := range sets {
		for _, o := range set.Observations {
			key := o.NaturalKey()
			idx, ok := at[key]
			if !ok {
				at[key] = len(out.Observations)
				out.Observations = append(out.Observations, o.Clone())
				continue
			}

			dst := &out.Observations[idx]
			if dst.Population == 0 && o.Population > 0 {
				dst.Population = o.Population
			}
			for col, v := range o.Values {
				if _, exists := dst.Values[col]; !exists {
					dst.SetValue(col, v)
				}
			}
		}
	}

	return out
}
