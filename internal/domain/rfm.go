package domain

import "time"

type Segment string

const (
	SegmentVIP       Segment = "VIP"
	SegmentRegular   Segment = "Regular"
	SegmentChurnRisk Segment = "Churn Risk"
	// SegmentUnscored marks days where at least one of R, F or M could not be scored.
	SegmentUnscored Segment = "Unscored"
)

const (
	vipThreshold     = 9
	regularThreshold = 5
)

// SegmentOrder is the fixed display order of the scored segments.
var SegmentOrder = []Segment{SegmentVIP, SegmentRegular, SegmentChurnRisk}

// SegmentFor maps a combined RFM score to its segment.
func SegmentFor(score int) Segment {
	switch {
	case score >= vipThreshold:
		return SegmentVIP
	case score >= regularThreshold:
		return SegmentRegular
	default:
		return SegmentChurnRisk
	}
}

// CombineScores sums the three scores. It returns nil when any score is missing.
func CombineScores(r, f, m *int) *int {
	if r == nil || f == nil || m == nil {
		return nil
	}

	total := *r + *f + *m
	return &total
}

// DailyAggregate is the RFM input for one calendar day of the filtered view.
type DailyAggregate struct {
	Date      time.Time `json:"date"`
	Recency   int       `json:"recency"`
	Frequency int       `json:"frequency"`
	Monetary  int       `json:"monetary"`
}

type ScoredDay struct {
	DailyAggregate
	RScore   *int    `json:"r_score"`
	FScore   *int    `json:"f_score"`
	MScore   *int    `json:"m_score"`
	RFMScore *int    `json:"rfm_score"`
	Segment  Segment `json:"segment"`
}

// SegmentSummary holds the mean RFM values of the days in one segment.
type SegmentSummary struct {
	Segment   Segment `json:"segment"`
	Days      int     `json:"days"`
	Recency   float64 `json:"recency"`
	Frequency float64 `json:"frequency"`
	Monetary  float64 `json:"monetary"`
	RFMScore  float64 `json:"rfm_score"`
}

type SegmentCount struct {
	Segment Segment `json:"segment"`
	Days    int     `json:"days"`
}

type Segmentation struct {
	Days []ScoredDay `json:"days"`
	// Summary lists present segments in SegmentOrder.
	Summary []SegmentSummary `json:"summary"`
	// Counts lists every segment in SegmentOrder, zeros included.
	Counts []SegmentCount `json:"counts"`
	// Distribution lists present segments by descending day count.
	Distribution []SegmentCount `json:"distribution"`
	Unscored     int            `json:"unscored"`
	Warnings     []string       `json:"warnings"`
}
