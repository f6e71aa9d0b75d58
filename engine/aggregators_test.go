package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// BUCKETIZE TESTS
// ============================================================================

func TestBucketizeSingleSeries(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "a", "c": 5},
		{"g": "a", "c": 3},
		{"g": "b", "c": 2},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c"})

	want := SeriesSet{
		Labels:   []string{"a", "b"},
		Series:   []Series{{Name: "default", Data: []float64{8, 2}}},
		MaxCount: 8,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bucketize mismatch (-want +got):\n%s", diff)
	}
}

func TestBucketizeSecondarySeries(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "a", "s": "x", "c": "1"},
		{"g": "b", "s": "y", "c": "2"},
		{"g": "a", "s": "y", "c": "3"},
		{"g": "b", "c": "4"},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Secondary: "s", Measure: "c"})

	want := SeriesSet{
		Labels: []string{"a", "b"},
		Series: []Series{
			{Name: "x", Data: []float64{1, 0}},
			{Name: "y", Data: []float64{3, 2}},
			{Name: "default", Data: []float64{0, 4}},
		},
		MaxCount: 4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bucketize mismatch (-want +got):\n%s", diff)
	}
}

func TestBucketizeKeepsFirstSeenOrder(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "zeta", "c": 1},
		{"g": "10", "c": 1},
		{"g": "alpha", "c": 1},
		{"g": "2", "c": 1},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c"})
	assert.Equal(t, []string{"zeta", "10", "alpha", "2"}, got.Labels)
}

func TestBucketizePrimaryOverflow(t *testing.T) {
	records := []Record{
		{"g": "a", "c": 1},
		{"g": "b", "c": 2},
		{"g": "c", "c": 3},
		{"g": "d", "c": 4},
		{"g": "e", "c": 5},
		{"g": "a", "c": 10},
	}

	got := Bucketize(NewSliceView(records), BucketSpec{Primary: "g", Measure: "c", MaxPrimaryKeys: 3})

	assert.Equal(t, []string{"a", "b", OverflowLabel}, got.Labels)
	require.Len(t, got.Series, 1)
	assert.Equal(t, []float64{11, 2, 12}, got.Series[0].Data)
	assert.Equal(t, float64(12), got.MaxCount)
}

func TestBucketizeDefaultCapCollapsesTail(t *testing.T) {
	var records []Record
	for i := 0; i < 60; i++ {
		records = append(records, Record{"g": fmt.Sprintf("p%02d", i), "c": 1})
	}

	got := Bucketize(NewSliceView(records), BucketSpec{Primary: "g", Measure: "c"})

	require.Len(t, got.Labels, DefaultMaxKeys)
	others := 0
	for _, l := range got.Labels {
		if l == OverflowLabel {
			others++
		}
	}
	assert.Equal(t, 1, others, "exactly one overflow label")
	assert.Equal(t, OverflowLabel, got.Labels[DefaultMaxKeys-1])
	// ranks 49..59 collapse into the overflow bucket
	assert.Equal(t, float64(11), got.Series[0].Data[DefaultMaxKeys-1])
}

func TestBucketizeCapIsHard(t *testing.T) {
	var records []Record
	for i := 0; i < 60; i++ {
		records = append(records, Record{"g": fmt.Sprintf("p%02d", i), "c": 1})
	}

	got := Bucketize(NewSliceView(records), BucketSpec{Primary: "g", Measure: "c", MaxPrimaryKeys: 500})
	assert.Len(t, got.Labels, DefaultMaxKeys)
}

func TestBucketizeSecondaryOverflow(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "a", "s": "x", "c": 1},
		{"g": "a", "s": "y", "c": 2},
		{"g": "a", "s": "z", "c": 3},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Secondary: "s", Measure: "c", MaxSecondaryKeys: 2})

	want := []Series{
		{Name: "x", Data: []float64{1}},
		{Name: OverflowLabel, Data: []float64{5}},
	}
	if diff := cmp.Diff(want, got.Series); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestBucketizeInvalidMeasuresContributeNothing(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "a", "c": "abc"},
		{"g": "a", "c": "7"},
		{"g": "b", "c": nil},
		{"g": "b", "c": "12.9"},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c"})

	assert.Equal(t, []string{"a", "b"}, got.Labels)
	assert.Equal(t, []float64{7, 12}, got.Series[0].Data)
	assert.Equal(t, float64(12), got.MaxCount)
}

func TestBucketizeSkipsEmptyPrimary(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "", "c": 5},
		{"c": 3},
		{"g": "a", "c": 1},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c"})

	assert.Equal(t, []string{"a"}, got.Labels)
	assert.Equal(t, []float64{1}, got.Series[0].Data)
	assert.Equal(t, float64(1), got.MaxCount)
}

func TestBucketizeEmptyPrimaryCountsTowardCap(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "", "s": "z", "c": 1},
		{"g": "a", "c": 2},
		{"g": "b", "c": 3},
	})

	// "", a and b are three distinct primaries against a cap of two, so
	// everything from rank 1 on collapses even though "" is never drawn.
	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c", MaxPrimaryKeys: 2})

	want := SeriesSet{
		Labels:   []string{OverflowLabel},
		Series:   []Series{{Name: DefaultSeriesName, Data: []float64{5}}},
		MaxCount: 5,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bucketize mismatch (-want +got):\n%s", diff)
	}
}

func TestBucketizeEmptyPrimaryRegistersSecondary(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "", "s": "z", "c": 1},
		{"g": "a", "s": "x", "c": 2},
		{"g": "a", "s": "y", "c": 3},
	})

	// z, x and y are three secondaries against a cap of two: x and y
	// collapse, and z never becomes a series because its row is skipped.
	got := Bucketize(view, BucketSpec{Primary: "g", Secondary: "s", Measure: "c", MaxSecondaryKeys: 2})

	assert.Equal(t, []string{"a"}, got.Labels)
	require.Len(t, got.Series, 1)
	assert.Equal(t, Series{Name: OverflowLabel, Data: []float64{5}}, got.Series[0])
}

func TestBucketizeSaturatesHugeMeasures(t *testing.T) {
	view := NewSliceView([]Record{
		{"g": "a", "c": "99999999999999999999"},
		{"g": "a", "c": "5"},
	})

	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c"})

	assert.Equal(t, []float64{float64(math.MaxInt64)}, got.Series[0].Data)
}

func TestBucketizeMaxCountFloor(t *testing.T) {
	view := NewSliceView([]Record{{"g": "a", "c": -5}})

	got := Bucketize(view, BucketSpec{Primary: "g", Measure: "c"})

	assert.Equal(t, []float64{-5}, got.Series[0].Data)
	assert.Equal(t, float64(1), got.MaxCount)
}

func TestBucketizeEmptyInputs(t *testing.T) {
	records := NewSliceView([]Record{{"g": "a", "c": 1}})

	tests := []struct {
		name string
		view RecordView
		spec BucketSpec
	}{
		{"no records", NewSliceView(nil), BucketSpec{Primary: "g", Measure: "c"}},
		{"nil view", nil, BucketSpec{Primary: "g", Measure: "c"}},
		{"no measure", records, BucketSpec{Primary: "g"}},
		{"no primary", records, BucketSpec{Measure: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bucketize(tt.view, tt.spec)
			if diff := cmp.Diff(EmptySeriesSet(), got); diff != "" {
				t.Errorf("expected empty set (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBucketizeAlignmentAndDeterminism(t *testing.T) {
	var records []Record
	for i := 0; i < 500; i++ {
		records = append(records, Record{
			"g": fmt.Sprintf("g%d", (i*7)%73),
			"s": fmt.Sprintf("s%d", (i*13)%61),
			"c": i % 17,
		})
	}
	view := NewSliceView(records)
	spec := BucketSpec{Primary: "g", Secondary: "s", Measure: "c", MaxPrimaryKeys: 20, MaxSecondaryKeys: 10}

	first := Bucketize(view, spec)
	second := Bucketize(view, spec)

	for _, s := range first.Series {
		assert.Len(t, s.Data, len(first.Labels), "series %s misaligned", s.Name)
	}
	assert.Len(t, first.Labels, 20)
	assert.Len(t, first.Series, 10)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Bucketize not deterministic (-first +second):\n%s", diff)
	}
}

func TestBucketizeDomainView(t *testing.T) {
	type order struct {
		Region string
		Units  int
	}
	view := NewDomainAdapter[order]().
		Field("region", func(o order) any { return o.Region }).
		Field("units", func(o order) any { return o.Units }).
		Bind([]order{{"EU", 3}, {"US", 4}, {"EU", 1}})

	got := Bucketize(view, BucketSpec{Primary: "region", Measure: "units"})

	assert.Equal(t, []string{"EU", "US"}, got.Labels)
	assert.Equal(t, []float64{4, 4}, got.Series[0].Data)
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"12", 12, true},
		{"12.7", 12, true},
		{"  42px", 42, true},
		{"-3", -3, true},
		{"+5", 5, true},
		{"1e3", 1, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"99999999999999999999", math.MaxInt64, true},
		{"-99999999999999999999", math.MinInt64, true},
	}
	for _, tt := range tests {
		got, ok := ParseLeadingInt(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseLeadingInt(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "ParseLeadingInt(%q)", tt.in)
	}
}

func TestCapKeys(t *testing.T) {
	assert.Equal(t, DefaultMaxKeys, capKeys(0))
	assert.Equal(t, DefaultMaxKeys, capKeys(-4))
	assert.Equal(t, DefaultMaxKeys, capKeys(51))
	assert.Equal(t, 7, capKeys(7))
}
