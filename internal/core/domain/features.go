package domain

// RawFeatureDocument is the low-level acoustic descriptor record the feature
// store returns for one recording. Every field is optional: a document may be
// partially populated, and one with no relevant fields simply contributes
// nothing to aggregation.
type RawFeatureDocument struct {
	Rhythm   *RhythmSection   `json:"rhythm,omitempty"`
	Tonal    *TonalSection    `json:"tonal,omitempty"`
	LowLevel *LowLevelSection `json:"lowlevel,omitempty"`
}

type RhythmSection struct {
	BPM *float64 `json:"bpm,omitempty"`
}

type TonalSection struct {
	ChromaCens []float64 `json:"chroma_cens,omitempty"`
}

type LowLevelSection struct {
	MFCC             *MFCCSection `json:"mfcc,omitempty"`
	SpectralCentroid *StatBlock   `json:"spectral_centroid,omitempty"`
	SpectralFlux     *StatBlock   `json:"spectral_flux,omitempty"`
	ZeroCrossingRate *StatBlock   `json:"zerocrossingrate,omitempty"`
}

type MFCCSection struct {
	Mean []float64 `json:"mean,omitempty"`
}

// StatBlock holds the per-recording summary statistics the feature store
// computes for a scalar descriptor.
type StatBlock struct {
	Mean *float64 `json:"mean,omitempty"`
	Var  *float64 `json:"var,omitempty"`
}

// BPM returns the document's tempo estimate, if present.
func (d RawFeatureDocument) BPM() (float64, bool) {
	if d.Rhythm == nil || d.Rhythm.BPM == nil {
		return 0, false
	}
	return *d.Rhythm.BPM, true
}

// ChromaCens returns the document's chroma energy vector, if present.
func (d RawFeatureDocument) ChromaCens() ([]float64, bool) {
	if d.Tonal == nil || len(d.Tonal.ChromaCens) == 0 {
		return nil, false
	}
	return d.Tonal.ChromaCens, true
}

// MFCCMean returns the document's mean cepstral coefficient vector, if present.
func (d RawFeatureDocument) MFCCMean() ([]float64, bool) {
	if d.LowLevel == nil || d.LowLevel.MFCC == nil || len(d.LowLevel.MFCC.Mean) == 0 {
		return nil, false
	}
	return d.LowLevel.MFCC.Mean, true
}

// SpectralCentroidMean returns the document's mean spectral centroid, if present.
func (d RawFeatureDocument) SpectralCentroidMean() (float64, bool) {
	if d.LowLevel == nil || d.LowLevel.SpectralCentroid == nil || d.LowLevel.SpectralCentroid.Mean == nil {
		return 0, false
	}
	return *d.LowLevel.SpectralCentroid.Mean, true
}

// SpectralFluxVar returns the document's spectral flux variance, if present.
func (d RawFeatureDocument) SpectralFluxVar() (float64, bool) {
	if d.LowLevel == nil || d.LowLevel.SpectralFlux == nil || d.LowLevel.SpectralFlux.Var == nil {
		return 0, false
	}
	return *d.LowLevel.SpectralFlux.Var, true
}

// ZeroCrossingRateMean returns the document's mean zero-crossing rate, if present.
func (d RawFeatureDocument) ZeroCrossingRateMean() (float64, bool) {
	if d.LowLevel == nil || d.LowLevel.ZeroCrossingRate == nil || d.LowLevel.ZeroCrossingRate.Mean == nil {
		return 0, false
	}
	return *d.LowLevel.ZeroCrossingRate.Mean, true
}

// AggregateProfile is the statistical summary of one batch — the pipeline's
// sole output artifact. It is always fully populated: every field holds its
// zero value (or empty slice) when the source collection was empty, so
// consumers never branch on missing keys.
type AggregateProfile struct {
	Tempo            TempoProfile    `json:"tempo"`
	MFCC             MFCCProfile     `json:"mfcc"`
	Chroma           ChromaProfile   `json:"chroma"`
	Spectral         SpectralProfile `json:"spectral"`
	RhythmComplexity float64         `json:"rhythm_complexity"`
}

type TempoProfile struct {
	Mean  float64    `json:"mean"`
	Std   float64    `json:"std"`
	Range [2]float64 `json:"range"`
}

type MFCCProfile struct {
	MeanVector     []float64   `json:"mean_vector"`
	VarianceMatrix [][]float64 `json:"variance_matrix"`
}

type ChromaProfile struct {
	DominantPitches []int     `json:"dominant_pitches"`
	AvgProfile      []float64 `json:"avg_profile"`
}

type SpectralProfile struct {
	AvgCentroid  float64 `json:"avg_centroid"`
	FluxVariance float64 `json:"flux_variance"`
}

// PipelineResult is what one pipeline invocation hands back to its caller.
// ProcessedCount counts songs attempted, matched or not.
type PipelineResult struct {
	Features       AggregateProfile `json:"features"`
	ProcessedCount int              `json:"processed_count"`
}
