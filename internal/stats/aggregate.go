// Package stats implements the numeric aggregation behind the sonic
// fingerprint: descriptive statistics over scalar collections, element-wise
// reductions over vector collections, and the fold from a set of raw feature
// documents into one AggregateProfile.
//
// All functions are pure and total: empty input yields zero values, never an
// error or a panic.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Variance returns the population variance of xs, or 0 for an empty slice.
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.PopVariance(xs, nil)
}

// Std returns the population standard deviation of xs, or 0 for an empty slice.
func Std(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.PopStdDev(xs, nil)
}

// MeanVector returns the element-wise mean of a collection of vectors. The
// result has the length of the first vector. At each index the numerator sums
// only the vectors long enough to hold that index, while the divisor is always
// the total vector count, so per-index means run low on ragged input. That
// bias is intentional and pinned by tests; see DESIGN.md before changing it.
func MeanVector(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return []float64{}
	}
	out := make([]float64, len(vectors[0]))
	for i := range out {
		var sum float64
		for _, v := range vectors {
			if i < len(v) {
				sum += v[i]
			}
		}
		out[i] = sum / float64(len(vectors))
	}
	return out
}

// VarianceMatrix returns the N×N population covariance matrix of the vectors,
// where N is the length of MeanVector(vectors). The diagonal holds per-element
// variances. Elements a vector is too short to hold are taken as 0 before
// differencing — deliberately not the skip rule MeanVector uses.
func VarianceMatrix(vectors [][]float64) [][]float64 {
	mean := MeanVector(vectors)
	n := len(mean)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	if len(vectors) == 0 {
		return m
	}
	for _, v := range vectors {
		for i := 0; i < n; i++ {
			var vi float64
			if i < len(v) {
				vi = v[i]
			}
			di := vi - mean[i]
			for j := 0; j < n; j++ {
				var vj float64
				if j < len(v) {
					vj = v[j]
				}
				m[i][j] += di * (vj - mean[j])
			}
		}
	}
	count := float64(len(vectors))
	for i := range m {
		for j := range m[i] {
			m[i][j] /= count
		}
	}
	return m
}

// DominantIndices returns the indices of the k largest entries of
// MeanVector(vectors), in descending order of value. Ties keep their original
// index order. Fewer than k entries returns all of them.
func DominantIndices(vectors [][]float64, k int) []int {
	mean := MeanVector(vectors)
	idx := make([]int, len(mean))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return mean[idx[a]] > mean[idx[b]]
	})
	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

// dominantPitchCount caps how many pitch classes the profile reports.
const dominantPitchCount = 3

// BuildProfile folds a collection of raw feature documents into one
// AggregateProfile. Documents missing a given descriptor simply do not
// contribute to it. An empty collection yields a fully zero-valued profile.
func BuildProfile(docs []domain.RawFeatureDocument) domain.AggregateProfile {
	var (
		bpms      []float64
		mfccs     [][]float64
		chromas   [][]float64
		centroids []float64
		fluxVars  []float64
		zcrs      []float64
	)

	for _, d := range docs {
		if v, ok := d.BPM(); ok {
			bpms = append(bpms, v)
		}
		if v, ok := d.MFCCMean(); ok {
			mfccs = append(mfccs, v)
		}
		if v, ok := d.ChromaCens(); ok {
			chromas = append(chromas, v)
		}
		if v, ok := d.SpectralCentroidMean(); ok {
			centroids = append(centroids, v)
		}
		if v, ok := d.SpectralFluxVar(); ok {
			fluxVars = append(fluxVars, v)
		}
		if v, ok := d.ZeroCrossingRateMean(); ok {
			zcrs = append(zcrs, v)
		}
	}

	var tempoRange [2]float64
	if len(bpms) > 0 {
		tempoRange = [2]float64{floats.Min(bpms), floats.Max(bpms)}
	}

	return domain.AggregateProfile{
		Tempo: domain.TempoProfile{
			Mean:  Mean(bpms),
			Std:   Std(bpms),
			Range: tempoRange,
		},
		MFCC: domain.MFCCProfile{
			MeanVector:     MeanVector(mfccs),
			VarianceMatrix: VarianceMatrix(mfccs),
		},
		Chroma: domain.ChromaProfile{
			DominantPitches: DominantIndices(chromas, dominantPitchCount),
			AvgProfile:      MeanVector(chromas),
		},
		Spectral: domain.SpectralProfile{
			AvgCentroid:  Mean(centroids),
			FluxVariance: Mean(fluxVars),
		},
		RhythmComplexity: Mean(zcrs),
	}
}
