package segmenting

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
	"github.com/vfg2006/bikeshare-dashboard/pkg/log"
	"github.com/vfg2006/bikeshare-dashboard/pkg/utils"
)

type Segmenter interface {
	// Segment scores every calendar day of the filtered view.
	Segment(ctx context.Context, view dataset.View) (domain.Segmentation, error)
}

var (
	rentalCount = dataset.Aggregation{Column: dataset.ColTotal, Type: dataframe.Aggregation_COUNT}
	rentalSum   = dataset.Aggregation{Column: dataset.ColTotal, Type: dataframe.Aggregation_SUM}
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Segment(ctx context.Context, view dataset.View) (domain.Segmentation, error) {
	logger := log.ForContext(ctx)

	daily, err := DailyAggregates(view)
	if err != nil {
		return domain.Segmentation{}, err
	}

	result := domain.Segmentation{
		Days:         make([]domain.ScoredDay, len(daily)),
		Summary:      []domain.SegmentSummary{},
		Distribution: []domain.SegmentCount{},
		Warnings:     []string{},
	}

	recency := make([]float64, len(daily))
	frequency := make([]float64, len(daily))
	monetary := make([]float64, len(daily))
	for i, d := range daily {
		recency[i] = float64(d.Recency)
		frequency[i] = float64(d.Frequency)
		monetary[i] = float64(d.Monetary)
	}

	warn := func(msg string, err error) {
		logger.WithError(err).Warn("segmenting: " + msg)
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", msg, err))
	}

	var rScores []*int
	if b, err := quartileBins(recency); err != nil {
		warn("recency scoring failed, recency scores left undefined", err)
		rScores = make([]*int, len(daily))
	} else {
		rScores = label(b, descendingLabels)
	}

	fScores := scoreWithFallback(frequency, "frequency", warn)
	mScores := scoreWithFallback(monetary, "monetary", warn)

	for i, d := range daily {
		day := domain.ScoredDay{
			DailyAggregate: d,
			RScore:         rScores[i],
			FScore:         fScores[i],
			MScore:         mScores[i],
			RFMScore:       domain.CombineScores(rScores[i], fScores[i], mScores[i]),
		}

		if day.RFMScore == nil {
			day.Segment = domain.SegmentUnscored
			result.Unscored++
		} else {
			day.Segment = domain.SegmentFor(*day.RFMScore)
		}

		result.Days[i] = day
	}

	result.Summary = summarize(result.Days)
	result.Counts = counts(result.Days)
	result.Distribution = distribution(result.Days)

	logger.WithFields(log.Fields{
		"segment_days":     len(result.Days),
		"segment_unscored": result.Unscored,
	}).Debug("segmenting: days scored")

	return result, nil
}

// scoreWithFallback scores a column into quartiles, falling back to equal-width
// bins when the quartile edges collapse.
func scoreWithFallback(xs []float64, column string, warn func(string, error)) []*int {
	b, err := quartileBins(xs)
	if err != nil {
		warn(column+" quartiles collapsed, using equal-width bins", err)
		b = equalWidthBins(xs)
	}
	return label(b, ascendingLabels)
}

// DailyAggregates groups the view by calendar date, ascending. Recency counts
// the days back from the latest date in the view.
func DailyAggregates(view dataset.View) ([]domain.DailyAggregate, error) {
	if view.Len() == 0 {
		return []domain.DailyAggregate{}, nil
	}

	grouped, err := dataset.GroupBy(view.Frame, dataset.ColDate, rentalCount, rentalSum)
	if err != nil {
		return nil, errors.Wrap(err, "segmenting: daily aggregates")
	}

	dates := grouped.Col(dataset.ColDate).Records()
	frequency := grouped.Col(rentalCount.Name()).Float()
	monetary := grouped.Col(rentalSum.Name()).Float()

	daily := make([]domain.DailyAggregate, len(dates))
	for i, raw := range dates {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "segmenting: parse date %q", raw)
		}
		daily[i] = domain.DailyAggregate{
			Date:      date,
			Frequency: int(math.Round(frequency[i])),
			Monetary:  int(math.Round(monetary[i])),
		}
	}

	latest := daily[len(daily)-1].Date
	for i := range daily {
		daily[i].Recency = utils.DaysBetween(daily[i].Date, latest)
	}

	return daily, nil
}

func summarize(days []domain.ScoredDay) []domain.SegmentSummary {
	type acc struct {
		n                         int
		recency, frequency, money float64
		score                     float64
	}

	bySegment := make(map[domain.Segment]*acc)
	for _, d := range days {
		if d.RFMScore == nil {
			continue
		}
		a, ok := bySegment[d.Segment]
		if !ok {
			a = &acc{}
			bySegment[d.Segment] = a
		}
		a.n++
		a.recency += float64(d.Recency)
		a.frequency += float64(d.Frequency)
		a.money += float64(d.Monetary)
		a.score += float64(*d.RFMScore)
	}

	summary := make([]domain.SegmentSummary, 0, len(bySegment))
	for _, segment := range domain.SegmentOrder {
		a, ok := bySegment[segment]
		if !ok {
			continue
		}
		n := float64(a.n)
		summary = append(summary, domain.SegmentSummary{
			Segment:   segment,
			Days:      a.n,
			Recency:   utils.RoundWithTwoDecimalPlace(a.recency / n),
			Frequency: utils.RoundWithTwoDecimalPlace(a.frequency / n),
			Monetary:  utils.RoundWithTwoDecimalPlace(a.money / n),
			RFMScore:  utils.RoundWithTwoDecimalPlace(a.score / n),
		})
	}

	return summary
}

func counts(days []domain.ScoredDay) []domain.SegmentCount {
	n := make(map[domain.Segment]int, len(domain.SegmentOrder))
	for _, d := range days {
		n[d.Segment]++
	}

	out := make([]domain.SegmentCount, len(domain.SegmentOrder))
	for i, segment := range domain.SegmentOrder {
		out[i] = domain.SegmentCount{Segment: segment, Days: n[segment]}
	}
	return out
}

// distribution lists every segment present, unscored included, by descending
// count. Ties keep the fixed segment order.
func distribution(days []domain.ScoredDay) []domain.SegmentCount {
	order := append(append([]domain.Segment(nil), domain.SegmentOrder...), domain.SegmentUnscored)

	n := make(map[domain.Segment]int, len(order))
	for _, d := range days {
		n[d.Segment]++
	}

	out := make([]domain.SegmentCount, 0, len(n))
	for _, segment := range order {
		if n[segment] > 0 {
			out = append(out, domain.SegmentCount{Segment: segment, Days: n[segment]})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Days > out[j].Days })
	return out
}
