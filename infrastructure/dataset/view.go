package dataset

import (
	"fmt"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

var ErrEmptyView = errors.New("dataset: empty view")

// View is a filtered slice of a Dataset. Frame and Records hold the same rows
// in the same order.
type View struct {
	Frame   dataframe.DataFrame
	Records []domain.RentalRecord
}

func (v View) Len() int {
	return len(v.Records)
}

// All returns the unfiltered view of the dataset.
func (d *Dataset) All() View {
	if d == nil {
		return View{Records: []domain.RentalRecord{}}
	}
	return View{Frame: d.Frame, Records: d.Records}
}

// Aggregation is one aggregated column of a GroupBy.
type Aggregation struct {
	Column string
	Type   dataframe.AggregationType
}

// Name is the column the aggregation produces in the grouped frame.
func (a Aggregation) Name() string {
	return fmt.Sprintf("%s_%s", a.Column, a.Type)
}

// GroupBy groups frame by key and applies aggs to each group. The result holds
// one row per key value, ascending by key.
func GroupBy(frame dataframe.DataFrame, key string, aggs ...Aggregation) (dataframe.DataFrame, error) {
	if frame.Nrow() == 0 {
		return dataframe.DataFrame{}, ErrEmptyView
	}

	columns := []string{key}
	types := make([]dataframe.AggregationType, len(aggs))
	names := make([]string, len(aggs))
	for i, a := range aggs {
		types[i] = a.Type
		names[i] = a.Column
		if !slices.Contains(columns, a.Column) {
			columns = append(columns, a.Column)
		}
	}

	groups := frame.Select(columns).GroupBy(key)
	if groups == nil {
		return dataframe.DataFrame{}, errors.Errorf("dataset: group by %q", key)
	}
	if groups.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(groups.Err, "dataset: group by %s", key)
	}

	out := groups.Aggregation(types, names).Arrange(dataframe.Sort(key))
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(out.Err, "dataset: aggregate by %s", key)
	}

	return out, nil
}
