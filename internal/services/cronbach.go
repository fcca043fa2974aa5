package services

// ScoreMatrix returns the scores of respondents who answered every
// question, shaped [respondent][question].
func ScoreMatrix(t *ResponseTable) [][]float64 {
	matrix := make([][]float64, 0, t.Rows())
	for _, row := range t.cells {
		scores := make([]float64, 0, len(row))
		for _, l := range row {
			v, ok := l.Score()
			if !ok {
				break
			}
			scores = append(scores, float64(v))
		}
		if len(scores) == len(row) {
			matrix = append(matrix, scores)
		}
	}
	return matrix
}

// Reliability is Cronbach's alpha over complete rows and the number of rows
// it used.
func Reliability(t *ResponseTable) (float64, int) {
	matrix := ScoreMatrix(t)
	return CronbachAlpha(matrix), len(matrix)
}

// CronbachAlpha computes alpha for a [respondent][question] matrix using
// population variance, clamped to [0,1]. Fewer than two questions, ragged
// rows or zero total variance give 0.
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}
	totals := make([]float64, n)
	var sumItemVars float64
	for j := 0; j < k; j++ {
		col := make([]float64, n)
		for i, row := range matrix {
			if len(row) != k {
				return 0
			}
			col[i] = row[j]
			totals[i] += row[j]
		}
		sumItemVars += populationVariance(col)
	}
	totalVar := populationVariance(totals)
	if totalVar == 0 {
		return 0
	}
	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	switch {
	case alpha < 0:
		return 0
	case alpha > 1:
		return 1
	}
	return alpha
}

func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
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
