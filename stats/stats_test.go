package stats

import (
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMergeMatchesSequential(t *testing.T) {
	is := is.New(t)
	vals := []float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}
	all := &Statistic{}
	for _, v := range vals {
		all.Push(v)
	}
	for split := 0; split <= len(vals); split++ {
		a, b := &Statistic{}, &Statistic{}
		for _, v := range vals[:split] {
			a.Push(v)
		}
		for _, v := range vals[split:] {
			b.Push(v)
		}
		a.Merge(b)
		is.Equal(a.Iterations(), all.Iterations())
		is.True(FuzzyEqual(a.Mean(), all.Mean()))
		is.True(FuzzyEqual(a.Stdev(), all.Stdev()))
		is.Equal(a.Min(), 10.0)
		is.Equal(a.Max(), 124.0)
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(math.Abs(ZVal(95)-1.959964) < 1e-5)
	is.True(FuzzyEqual(ZVal(0), 0))
}

func TestWinRate(t *testing.T) {
	is := is.New(t)
	rate, margin := WinRate(6, 2, 10, 95)
	is.True(FuzzyEqual(rate, 0.7))
	is.True(margin > 0.28 && margin < 0.29)
	rate, margin = WinRate(0, 0, 0, 95)
	is.Equal(rate, 0.0)
	is.Equal(margin, 0.0)
}
