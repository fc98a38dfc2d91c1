// Package datasettest provides small in-memory datasets for tests.
package datasettest

import (
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/vfg2006/bikeshare-dashboard/infrastructure/dataset"
	"github.com/vfg2006/bikeshare-dashboard/internal/config"
	"github.com/vfg2006/bikeshare-dashboard/internal/domain"
)

// Header matches the column layout of the published hourly dataset.
const Header = "instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt\n"

// SampleCSV spans five days, every weather code and a handful of hours.
const SampleCSV = Header +
	"1,2011-01-01,1,0,1,0,0,6,0,1,0.24,0.2879,0.81,0,3,13,16\n" +
	"2,2011-01-01,1,0,1,1,0,6,0,1,0.22,0.2727,0.8,0,8,32,40\n" +
	"3,2011-01-01,1,0,1,8,0,6,0,2,0.24,0.2576,0.75,0.0896,1,7,8\n" +
	"4,2011-01-01,1,0,1,17,0,6,0,1,0.3,0.2879,0.7,0.1343,12,30,42\n" +
	"5,2011-01-02,1,0,1,0,0,0,0,2,0.46,0.4545,0.88,0.2985,4,13,17\n" +
	"6,2011-01-02,1,0,1,8,0,0,0,1,0.36,0.3485,0.81,0.2239,2,20,22\n" +
	"7,2011-01-02,1,0,1,9,0,0,0,3,0.34,0.3333,0.93,0.1642,0,5,5\n" +
	"8,2011-01-03,1,0,1,8,0,1,1,1,0.2,0.197,0.44,0.194,5,60,65\n" +
	"9,2011-01-03,1,0,1,17,0,1,1,1,0.2,0.197,0.44,0.194,10,100,110\n" +
	"10,2011-01-03,1,0,1,18,0,1,1,2,0.18,0.1818,0.47,0.194,8,80,88\n" +
	"11,2011-01-04,1,0,1,7,0,2,1,1,0.16,0.1818,0.55,0.1045,2,40,42\n" +
	"12,2011-01-04,1,0,1,8,0,2,1,1,0.18,0.197,0.51,0.1642,6,90,96\n" +
	"13,2011-01-05,1,0,1,8,0,3,1,3,0.22,0.2273,0.44,0.1343,1,30,31\n" +
	"14,2011-01-05,1,0,1,22,0,3,1,4,0.2,0.197,0.59,0.1642,0,2,2\n"

// MustRead parses csv with the trust count policy and fails the test on error.
func MustRead(t testing.TB, csv string) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.Read(strings.NewReader(csv), config.CountPolicyTrust)
	if err != nil {
		t.Fatalf("datasettest: read sample: %v", err)
	}

	return ds
}

// Sample returns the SampleCSV dataset.
func Sample(t testing.TB) *dataset.Dataset {
	return MustRead(t, SampleCSV)
}

// View builds a view whose frame carries the columns of records.
func View(t testing.TB, records []domain.RentalRecord) dataset.View {
	t.Helper()

	if len(records) == 0 {
		return dataset.View{Records: []domain.RentalRecord{}}
	}

	n := len(records)
	dates := make([]string, n)
	hours := make([]int, n)
	weather := make([]int, n)
	casual := make([]int, n)
	registered := make([]int, n)
	totals := make([]int, n)
	rows := make([]int, n)
	for i, rec := range records {
		dates[i] = rec.Date.Format(time.DateOnly)
		hours[i] = rec.Hour
		weather[i] = rec.Weather
		casual[i] = rec.Casual
		registered[i] = rec.Registered
		totals[i] = rec.Total
		rows[i] = i
	}

	frame := dataframe.New(
		series.New(dates, series.String, dataset.ColDate),
		series.New(hours, series.Int, dataset.ColHour),
		series.New(weather, series.Int, dataset.ColWeather),
		series.New(casual, series.Int, dataset.ColCasual),
		series.New(registered, series.Int, dataset.ColRegistered),
		series.New(totals, series.Int, dataset.ColTotal),
		series.New(rows, series.Int, dataset.ColRow),
	)
	if frame.Err != nil {
		t.Fatalf("datasettest: build frame: %v", frame.Err)
	}

	return dataset.View{Frame: frame, Records: records}
}
