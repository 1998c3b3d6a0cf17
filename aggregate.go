package marker

import "math"

// Summarize reduces a completed outcome sequence into counts and mean
// scores over the evaluable outcomes only. It returns nil when no outcome
// is evaluable, so that the absence of data stays distinguishable from
// all-zero scores.
func Summarize(outcomes []Outcome) *Summary {
	var n int
	var completeness, accuracy, clarity, usefulness, overall float64

	for _, o := range outcomes {
		if !o.Success || o.Verdict == nil {
			continue
		}
		n++
		completeness += o.Verdict.Completeness
		accuracy += o.Verdict.Accuracy
		clarity += o.Verdict.Clarity
		usefulness += o.Verdict.Usefulness
		overall += o.Verdict.OverallScore
	}

	if n == 0 {
		return nil
	}

	return &Summary{
		Total:            len(outcomes),
		Succeeded:        n,
		Failed:           len(outcomes) - n,
		MeanCompleteness: round2(completeness / float64(n)),
		MeanAccuracy:     round2(accuracy / float64(n)),
		MeanClarity:      round2(clarity / float64(n)),
		MeanUsefulness:   round2(usefulness / float64(n)),
		MeanOverall:      round2(overall / float64(n)),
	}
}

func round2(x float64) Mean {
	return Mean(math.Round(x*100) / 100)
}
