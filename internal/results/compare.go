package results

import (
	"math"
	"sort"
)

// Aggregate is the mean and sample standard deviation of one metric.
type Aggregate struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// AlgorithmSummary aggregates every run of one algorithm.
type AlgorithmSummary struct {
	Algorithm string               `json:"algorithm"`
	Runs      int                  `json:"runs"`
	Metrics   map[string]Aggregate `json:"metrics"`
}

// Comparison lines algorithms up against each other, sorted by name.
type Comparison struct {
	Metrics    []string           `json:"metrics"`
	Algorithms []AlgorithmSummary `json:"algorithms"`
}

// Compare groups runs by algorithm and aggregates every metric. The
// standard deviation of a single run is 0.
func Compare(runs []Run) Comparison {
	groups := make(map[string][]Run)
	for _, r := range runs {
		groups[r.Algorithm] = append(groups[r.Algorithm], r)
	}
	names := make([]string, 0, len(groups))
	for n := range groups {
		names = append(names, n)
	}
	sort.Strings(names)

	cmp := Comparison{Metrics: Metrics, Algorithms: make([]AlgorithmSummary, 0, len(names))}
	for _, name := range names {
		group := groups[name]
		sum := AlgorithmSummary{Algorithm: name, Runs: len(group), Metrics: make(map[string]Aggregate, len(Metrics))}
		for _, m := range Metrics {
			values := make([]float64, len(group))
			for i := range group {
				values[i], _ = group[i].Metric(m)
			}
			sum.Metrics[m] = aggregate(values)
		}
		cmp.Algorithms = append(cmp.Algorithms, sum)
	}
	return cmp
}

func aggregate(values []float64) Aggregate {
	n := float64(len(values))
	if n == 0 {
		return Aggregate{}
	}
	var total float64
	for _, v := range values {
		total += v
	}
	mean := total / n
	if n < 2 {
		return Aggregate{Mean: mean}
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return Aggregate{Mean: mean, Std: math.Sqrt(sq / (n - 1))}
}
