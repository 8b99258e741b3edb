package services

// CronbachAlpha estimates the internal consistency of one dimension's items.
// rows is [respondent][item]; for the quiz an item is 1 when the answer chose
// the dimension's first letter and 0 otherwise. Population variances are used
// throughout, so perfectly agreeing items give 1. The result is clamped to
// [0,1]; fewer than two items, ragged rows or zero total variance give 0.
func CronbachAlpha(rows [][]float64) float64 {
	n := len(rows)
	if n == 0 {
		return 0
	}
	k := len(rows[0])
	if k < 2 {
		return 0
	}

	totals := make([]float64, n)
	column := make([]float64, n)
	var itemVarSum float64
	for j := 0; j < k; j++ {
		for i, row := range rows {
			if len(row) != k {
				return 0
			}
			column[i] = row[j]
			totals[i] += row[j]
		}
		itemVarSum += variance(column)
	}

	totalVar := variance(totals)
	if totalVar == 0 {
		return 0
	}
	kf := float64(k)
	alpha := kf / (kf - 1) * (1 - itemVarSum/totalVar)
	return min(max(alpha, 0), 1)
}

func variance(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return ss / float64(len(xs))
}
