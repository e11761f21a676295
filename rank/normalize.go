package rank

// ratio follows the overlap normalizers: a zero denominator yields 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return num / den
}

// PrecisionAt returns XY[k] / XX[k] for every cutoff.
func PrecisionAt(o Overlaps) Curve {
	out := make(Curve, len(o.XY))
	for k := range out {
		out[k] = ratio(o.XY[k], o.XX.At(k+1))
	}

	return out
}

// RecallAt returns XY[k] / YY[k] for every cutoff.
func RecallAt(o Overlaps) Curve {
	out := make(Curve, len(o.XY))
	for k := range out {
		out[k] = ratio(o.XY[k], o.YY.At(k+1))
	}

	return out
}

// AveragePrecision is Σ_k P@k · (R@k − R@(k−1)) over all cutoffs, with
// R@0 = 0. It is 0 when the reference is empty.
func AveragePrecision(o Overlaps) float64 {
	p, r := PrecisionAt(o), RecallAt(o)
	var ap, prev float64
	for k := range p {
		ap += p[k] * (r[k] - prev)
		prev = r[k]
	}

	return ap
}
