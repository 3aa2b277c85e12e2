// Package coverage summarises how evenly a batch of samples covers the
// candidate values of each independently drawn parameter.
package coverage

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"hypersample/domain/sample"
	"hypersample/domain/space"
)

// ValueCount is the number of samples that drew Value
type ValueCount struct {
	Value space.Scalar
	Count int
	// Expected is the count a perfectly uniform draw would produce
	Expected float64
}

// ParameterCoverage describes one enabled, dependency-free parameter
type ParameterCoverage struct {
	Name   string
	Counts []ValueCount

	// Summary statistics over Counts
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64

	// Chi-squared goodness of fit against the uniform draw
	ChiSquare float64
	DoF       float64
	PValue    float64
}

// Report covers every enabled, dependency-free parameter of a space
type Report struct {
	Samples    int
	Capacity   int
	Parameters []ParameterCoverage
}

// Analyze counts draws per candidate value. A boolean parameter missing from
// a sample counts as false.
func Analyze(sp *space.Space, samples []*sample.Sample) (*Report, error) {
	report := &Report{
		Samples:  len(samples),
		Capacity: sp.Capacity(),
	}

	for _, p := range sp.Enabled() {
		if !p.IsIndependent() {
			continue
		}
		pc, err := analyzeParameter(p, samples)
		if err != nil {
			return nil, fmt.Errorf("coverage for %s: %w", p.Name, err)
		}
		report.Parameters = append(report.Parameters, pc)
	}

	return report, nil
}

func analyzeParameter(p space.ParameterSpec, samples []*sample.Sample) (ParameterCoverage, error) {
	pc := ParameterCoverage{Name: p.Name}

	// Repeated candidates weigh proportionally more
	weights := make(map[space.Scalar]int)
	var order []space.Scalar
	for _, c := range p.Candidates {
		if weights[c] == 0 {
			order = append(order, c)
		}
		weights[c]++
	}

	counts := make(map[space.Scalar]int, len(order))
	for _, s := range samples {
		v, ok := s.Get(p.Name)
		if !ok {
			counts[space.Bool(false)]++
			continue
		}
		if sc, ok := v.Scalar(); ok {
			counts[sc]++
		}
	}

	n := float64(len(samples))
	data := make([]float64, 0, len(order))
	for _, c := range order {
		expected := n * float64(weights[c]) / float64(len(p.Candidates))
		pc.Counts = append(pc.Counts, ValueCount{Value: c, Count: counts[c], Expected: expected})
		data = append(data, float64(counts[c]))
		if expected > 0 {
			diff := float64(counts[c]) - expected
			pc.ChiSquare += diff * diff / expected
		}
	}

	var err error
	if pc.Mean, err = stats.Mean(data); err != nil {
		return pc, err
	}
	if pc.StdDev, err = stats.StandardDeviation(data); err != nil {
		return pc, err
	}
	if pc.Min, err = stats.Min(data); err != nil {
		return pc, err
	}
	if pc.Max, err = stats.Max(data); err != nil {
		return pc, err
	}

	pc.DoF = float64(len(order) - 1)
	pc.PValue = 1.0
	if pc.DoF > 0 && n > 0 {
		chiDist := distuv.ChiSquared{K: pc.DoF}
		pc.PValue = 1 - chiDist.CDF(pc.ChiSquare)
	}

	return pc, nil
}

// Format writes the report as an aligned table
func (r *Report) Format(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "coverage: %d samples of %d combinations\n", r.Samples, r.Capacity); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "parameter\tvalue\tcount\texpected")
	for _, pc := range r.Parameters {
		for _, vc := range pc.Counts {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\n", pc.Name, vc.Value, vc.Count, vc.Expected)
		}
		fmt.Fprintf(tw, "%s\tmean=%.2f sd=%.2f\tchi2=%.3f\tp=%.3f\n", pc.Name, pc.Mean, pc.StdDev, pc.ChiSquare, pc.PValue)
	}
	return tw.Flush()
}
