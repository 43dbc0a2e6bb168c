package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownParam is returned when a parameter override names no known parameter.
var ErrUnknownParam = errors.New("unknown parameter")

// Params holds every kinetic constant of the model, keyed in YAML by its
// canonical upper-case name. Processes read their constants from it once at
// construction.
type Params struct {
	// Tat/pTEFb feedback
	PTEFbNucInit            int     `yaml:"pTEFb_NUC_INIT"`
	PTEFbDoublingRate       float64 `yaml:"pTEFb_DOUBLING_RATE"`        // 1/min
	RateTatPTEFbBind        float64 `yaml:"RATE_TAT_pTEFb_BIND"`        // 1/(molecules*sec)
	RateTatPTEFbUnbind      float64 `yaml:"RATE_TAT_pTEFb_UNBIND"`      // 1/sec
	RateTatPTEFbAcetyl      float64 `yaml:"RATE_TAT_pTEFb_ACETYL"`      // 1/sec
	RateTatPTEFbDeacetyl    float64 `yaml:"RATE_TAT_pTEFb_DEACETYL"`    // 1/sec
	RateTatActTranscription float64 `yaml:"RATE_TAT_ACT_TRANSCRIPTION"` // 1/sec

	// Transcription
	PromoterOnRate         float64 `yaml:"PROMOTER_ON_RATE"`
	PromoterOffRate        float64 `yaml:"PROMOTER_OFF_RATE"`
	BasalTranscriptionRate float64 `yaml:"BASAL_TRANSCRIPTION_RATE"` // mRNA/min
	ThreshTatFeedback      float64 `yaml:"THRESH_TAT_FEEDBACK"`
	MaxTatEnhancement      float64 `yaml:"MAX_TAT_ENHANCEMENT"`
	IntegrationSiteEffects bool    `yaml:"INTEGRATION_SITE_EFFECTS"`

	// Splicing
	ProbSpliceFullToSingle  float64 `yaml:"PROB_SPLICE_FULL_TO_SINGLE"`
	ProbSpliceSingleToMulti float64 `yaml:"PROB_SPLICE_SINGLE_TO_MULTI"`
	ProbVifThirdSplice      float64 `yaml:"PROB_VIF_THIRD_SPLICE"`
	ProbVprThirdSplice      float64 `yaml:"PROB_VPR_THIRD_SPLICE"`
	SpliceDelayFactor       float64 `yaml:"SPLICE_DELAY_FACTOR"`

	// Rev binding and export
	MaxRevPerTranscript      int       `yaml:"MAX_REV_PER_TRANSCRIPT"`
	NumOfRevReqForExport     int       `yaml:"NUM_OF_REV_REQ_FOR_EXPORT"`
	RevBindingConstants      []float64 `yaml:"REV_BINDING_CONSTANTS"`
	RevDissociationConstants []float64 `yaml:"REV_DISSOCIATION_CONSTANTS"` // 1/sec
	VolumeNuc                float64   `yaml:"VOLUME_NUC"`                 // L
	ProbRevIndepExport       float64   `yaml:"PROB_REV_INDEP_EXPORT"`
	ProbRevDepExport         float64   `yaml:"PROB_REV_DEP_EXPORT"`

	// Translation
	FreqTranslation           float64 `yaml:"FREQ_TRANSLATION"` // proteins/min/transcript
	FreqTranslationSuppressed float64 `yaml:"FREQ_TRANSLATION_SUPPRESSED"`
	FreqTranslationIRES       float64 `yaml:"FREQ_TRANSLATION_IRES"`
	FreqGagProPolTranslation  float64 `yaml:"FREQ_GAG_PRO_POL_TRANSLATION"`

	// Localization
	ProbRevShuttlingIn  float64 `yaml:"PROB_REV_SHUTTLING_IN"`
	ProbRevShuttlingOut float64 `yaml:"PROB_REV_SHUTTLING_OUT"`
	ProbTatShuttlingIn  float64 `yaml:"PROB_TAT_SHUTTLING_IN"`
	ProbTatShuttlingOut float64 `yaml:"PROB_TAT_SHUTTLING_OUT"`

	// Degradation
	ProbMRNADeg       float64 `yaml:"PROB_mRNA_DEG"`
	ProbProteinDegNuc float64 `yaml:"PROB_PROTEIN_DEG_NUC"`
	ProbProteinDegCyt float64 `yaml:"PROB_PROTEIN_DEG_CYT"`
	ProbProteinDegMem float64 `yaml:"PROB_PROTEIN_DEG_MEM"`

	// Packaging
	VprG2ArrestThresh             float64 `yaml:"VPR_G2ARREST_THRESH"`
	AvogadroNum                   float64 `yaml:"AVOGADRO_NUM"`
	VolumeCytoplasm               float64 `yaml:"VOLUME_CYTOPLASM"` // L
	BindingConstantSL1            float64 `yaml:"BINDING_CONSTANT_SL1"`
	BindingConstantSL2            float64 `yaml:"BINDING_CONSTANT_SL2"`
	BindingConstantSL3            float64 `yaml:"BINDING_CONSTANT_SL3"`
	BindingConstantSL4            float64 `yaml:"BINDING_CONSTANT_SL4"`
	GagNCDissRate                 float64 `yaml:"GAGNC_DISS_RATE"`
	GagDiameter                   float64 `yaml:"GAG_DIAMETER"` // m
	GagVelocity                   float64 `yaml:"GAG_VELOCITY"` // m/s
	GagDiffusionProb              float64 `yaml:"GAG_DIFFUSION_PROB"`
	GagDimerDiffusionProb         float64 `yaml:"GAG_DIMER_DIFFUSION_PROB"`
	ProbGagBoundRNADimers         float64 `yaml:"PROB_GAG_BOUND_RNA_DIMERS"`
	MaxNumOfProgeny               int     `yaml:"MAX_NUM_OF_PROGENY"`
	AveGagPerVirion               float64 `yaml:"AVE_GAG_PER_VIRON"`
	AveVifPerVirion               float64 `yaml:"AVE_VIF_PER_VIRON"`
	AveGagProPolPerVirion         float64 `yaml:"AVE_GAGPROPOL_PER_VIRON"`
	AveVprPerVirion               float64 `yaml:"AVE_VPR_PER_VIRON"`
	AveNefPerVirion               float64 `yaml:"AVE_NEF_PER_VIRON"`
	VironExponentialGrowthConst   float64 `yaml:"VIRON_EXPONENTIAL_GROWTH_CONSTANT"`
	GagDimerDiffusionFoldChange   float64 `yaml:"GAG_DIMER_DIFFUSION_FOLD_CHANGE"`
	GagLateralDiffusionFoldChange float64 `yaml:"GAG_LATERAL_DIFFUSION_FOLD_CHANGE"`
	ThreshNucleateToStickToMem    float64 `yaml:"THRESH_NUCLEATE_TO_STICK_TO_MEM"`
	ProbRNANucleateTranslocation  float64 `yaml:"PROB_RNA_NUCLEATE_TRANSLOCATION"`
	NucleateDissRate              float64 `yaml:"NUCLEATE_DISS_RATE"`
}

// DefaultParams returns a complete parameter set. Values follow the
// literature sources of the model where one exists and are fitted otherwise.
func DefaultParams() *Params {
	return &Params{
		PTEFbNucInit:            500,
		PTEFbDoublingRate:       0.000481,
		RateTatPTEFbBind:        0.0015,
		RateTatPTEFbUnbind:      0.0017,
		RateTatPTEFbAcetyl:      0.001,
		RateTatPTEFbDeacetyl:    0.013,
		RateTatActTranscription: 0.1,

		PromoterOnRate:         0.0044,
		PromoterOffRate:        0.066,
		BasalTranscriptionRate: 0.5,
		ThreshTatFeedback:      1.0,
		MaxTatEnhancement:      100,

		ProbSpliceFullToSingle:  0.0075,
		ProbSpliceSingleToMulti: 0.0075,
		ProbVifThirdSplice:      0.005,
		ProbVprThirdSplice:      0.0045,
		SpliceDelayFactor:       0.8,

		MaxRevPerTranscript:      8,
		NumOfRevReqForExport:     8,
		RevBindingConstants:      []float64{0.6, 0.5, 0.4, 0.4, 0.475, 0.475, 0.475, 0.475},
		RevDissociationConstants: []float64{0.01, 0.012, 0.014, 0.014, 0.0125, 0.0125, 0.0125, 0.0125},
		VolumeNuc:                5e-13,
		ProbRevIndepExport:       0.0523,
		ProbRevDepExport:         0.0523,

		FreqTranslation:           0.8,
		FreqTranslationSuppressed: 0.1,
		FreqTranslationIRES:       0.35,
		FreqGagProPolTranslation:  0.05,

		ProbRevShuttlingIn:  0.1,
		ProbRevShuttlingOut: 0.03,
		ProbTatShuttlingIn:  0.1,
		ProbTatShuttlingOut: 0.03,

		ProbMRNADeg:       0.0029,
		ProbProteinDegNuc: 0.00165,
		ProbProteinDegCyt: 0.00165,
		ProbProteinDegMem: 0.00165,

		VprG2ArrestThresh:             200,
		AvogadroNum:                   6.022e23,
		VolumeCytoplasm:               4e-13,
		BindingConstantSL1:            2.0e5,
		BindingConstantSL2:            1.0e6,
		BindingConstantSL3:            1.0e6,
		BindingConstantSL4:            5.0e5,
		GagNCDissRate:                 0.01,
		GagDiameter:                   3.75e-9,
		GagVelocity:                   2.5e-7,
		GagDiffusionProb:              0.01,
		GagDimerDiffusionProb:         0.0079,
		ProbGagBoundRNADimers:         1.0,
		MaxNumOfProgeny:               5000,
		AveGagPerVirion:               2400,
		AveVifPerVirion:               10,
		AveGagProPolPerVirion:         120,
		AveVprPerVirion:               275,
		AveNefPerVirion:               60,
		VironExponentialGrowthConst:   4000,
		GagDimerDiffusionFoldChange:   0.79,
		GagLateralDiffusionFoldChange: 0.1,
		ThreshNucleateToStickToMem:    100,
		ProbRNANucleateTranslocation:  0.05,
		NucleateDissRate:              0.1,
	}
}

// LoadParams reads a YAML parameter file over DefaultParams. Keys absent
// from the file keep their default; unknown keys are an error.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params: %w", err)
	}
	p := DefaultParams()
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(p); err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}
	return p, nil
}

// Clone returns a deep copy of p.
func (p *Params) Clone() *Params {
	c := *p
	c.RevBindingConstants = append([]float64(nil), p.RevBindingConstants...)
	c.RevDissociationConstants = append([]float64(nil), p.RevDissociationConstants...)
	return &c
}

// scalars maps every scalar parameter's canonical name to its field.
func (p *Params) scalars() map[string]any {
	return map[string]any{
		"pTEFb_NUC_INIT":             &p.PTEFbNucInit,
		"pTEFb_DOUBLING_RATE":        &p.PTEFbDoublingRate,
		"RATE_TAT_pTEFb_BIND":        &p.RateTatPTEFbBind,
		"RATE_TAT_pTEFb_UNBIND":      &p.RateTatPTEFbUnbind,
		"RATE_TAT_pTEFb_ACETYL":      &p.RateTatPTEFbAcetyl,
		"RATE_TAT_pTEFb_DEACETYL":    &p.RateTatPTEFbDeacetyl,
		"RATE_TAT_ACT_TRANSCRIPTION": &p.RateTatActTranscription,

		"PROMOTER_ON_RATE":         &p.PromoterOnRate,
		"PROMOTER_OFF_RATE":        &p.PromoterOffRate,
		"BASAL_TRANSCRIPTION_RATE": &p.BasalTranscriptionRate,
		"THRESH_TAT_FEEDBACK":      &p.ThreshTatFeedback,
		"MAX_TAT_ENHANCEMENT":      &p.MaxTatEnhancement,
		"INTEGRATION_SITE_EFFECTS": &p.IntegrationSiteEffects,

		"PROB_SPLICE_FULL_TO_SINGLE":  &p.ProbSpliceFullToSingle,
		"PROB_SPLICE_SINGLE_TO_MULTI": &p.ProbSpliceSingleToMulti,
		"PROB_VIF_THIRD_SPLICE":       &p.ProbVifThirdSplice,
		"PROB_VPR_THIRD_SPLICE":       &p.ProbVprThirdSplice,
		"SPLICE_DELAY_FACTOR":         &p.SpliceDelayFactor,

		"MAX_REV_PER_TRANSCRIPT":    &p.MaxRevPerTranscript,
		"NUM_OF_REV_REQ_FOR_EXPORT": &p.NumOfRevReqForExport,
		"VOLUME_NUC":                &p.VolumeNuc,
		"PROB_REV_INDEP_EXPORT":     &p.ProbRevIndepExport,
		"PROB_REV_DEP_EXPORT":       &p.ProbRevDepExport,

		"FREQ_TRANSLATION":             &p.FreqTranslation,
		"FREQ_TRANSLATION_SUPPRESSED":  &p.FreqTranslationSuppressed,
		"FREQ_TRANSLATION_IRES":        &p.FreqTranslationIRES,
		"FREQ_GAG_PRO_POL_TRANSLATION": &p.FreqGagProPolTranslation,

		"PROB_REV_SHUTTLING_IN":  &p.ProbRevShuttlingIn,
		"PROB_REV_SHUTTLING_OUT": &p.ProbRevShuttlingOut,
		"PROB_TAT_SHUTTLING_IN":  &p.ProbTatShuttlingIn,
		"PROB_TAT_SHUTTLING_OUT": &p.ProbTatShuttlingOut,

		"PROB_mRNA_DEG":        &p.ProbMRNADeg,
		"PROB_PROTEIN_DEG_NUC": &p.ProbProteinDegNuc,
		"PROB_PROTEIN_DEG_CYT": &p.ProbProteinDegCyt,
		"PROB_PROTEIN_DEG_MEM": &p.ProbProteinDegMem,

		"VPR_G2ARREST_THRESH":               &p.VprG2ArrestThresh,
		"AVOGADRO_NUM":                      &p.AvogadroNum,
		"VOLUME_CYTOPLASM":                  &p.VolumeCytoplasm,
		"BINDING_CONSTANT_SL1":              &p.BindingConstantSL1,
		"BINDING_CONSTANT_SL2":              &p.BindingConstantSL2,
		"BINDING_CONSTANT_SL3":              &p.BindingConstantSL3,
		"BINDING_CONSTANT_SL4":              &p.BindingConstantSL4,
		"GAGNC_DISS_RATE":                   &p.GagNCDissRate,
		"GAG_DIAMETER":                      &p.GagDiameter,
		"GAG_VELOCITY":                      &p.GagVelocity,
		"GAG_DIFFUSION_PROB":                &p.GagDiffusionProb,
		"GAG_DIMER_DIFFUSION_PROB":          &p.GagDimerDiffusionProb,
		"PROB_GAG_BOUND_RNA_DIMERS":         &p.ProbGagBoundRNADimers,
		"MAX_NUM_OF_PROGENY":                &p.MaxNumOfProgeny,
		"AVE_GAG_PER_VIRON":                 &p.AveGagPerVirion,
		"AVE_VIF_PER_VIRON":                 &p.AveVifPerVirion,
		"AVE_GAGPROPOL_PER_VIRON":           &p.AveGagProPolPerVirion,
		"AVE_VPR_PER_VIRON":                 &p.AveVprPerVirion,
		"AVE_NEF_PER_VIRON":                 &p.AveNefPerVirion,
		"VIRON_EXPONENTIAL_GROWTH_CONSTANT": &p.VironExponentialGrowthConst,
		"GAG_DIMER_DIFFUSION_FOLD_CHANGE":   &p.GagDimerDiffusionFoldChange,
		"GAG_LATERAL_DIFFUSION_FOLD_CHANGE": &p.GagLateralDiffusionFoldChange,
		"THRESH_NUCLEATE_TO_STICK_TO_MEM":   &p.ThreshNucleateToStickToMem,
		"PROB_RNA_NUCLEATE_TRANSLOCATION":   &p.ProbRNANucleateTranslocation,
		"NUCLEATE_DISS_RATE":                &p.NucleateDissRate,
	}
}

// Set overrides a scalar parameter by canonical name. Integer parameters
// truncate value; boolean parameters are true for any non-zero value.
func (p *Params) Set(name string, value float64) error {
	field, ok := p.scalars()[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	switch f := field.(type) {
	case *float64:
		*f = value
	case *int:
		*f = int(value)
	case *bool:
		*f = value != 0
	}
	return nil
}

// Get returns a scalar parameter by canonical name.
func (p *Params) Get(name string) (float64, error) {
	field, ok := p.scalars()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	switch f := field.(type) {
	case *float64:
		return *f, nil
	case *int:
		return float64(*f), nil
	case *bool:
		if *f {
			return 1, nil
		}
	}
	return 0, nil
}

// Snapshot returns all scalar parameters by canonical name.
func (p *Params) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	for name := range p.scalars() {
		v, _ := p.Get(name)
		out[name] = v
	}
	return out
}

// Names returns the sorted canonical names of all scalar parameters.
func (p *Params) Names() []string {
	names := make([]string, 0, len(p.scalars()))
	for name := range p.scalars() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// probabilities lists the parameters that are per-minute probabilities.
var probabilities = []string{
	"PROMOTER_ON_RATE", "PROMOTER_OFF_RATE",
	"PROB_SPLICE_FULL_TO_SINGLE", "PROB_SPLICE_SINGLE_TO_MULTI",
	"PROB_VIF_THIRD_SPLICE", "PROB_VPR_THIRD_SPLICE", "SPLICE_DELAY_FACTOR",
	"PROB_REV_INDEP_EXPORT", "PROB_REV_DEP_EXPORT", "FREQ_GAG_PRO_POL_TRANSLATION",
	"PROB_REV_SHUTTLING_IN", "PROB_REV_SHUTTLING_OUT",
	"PROB_TAT_SHUTTLING_IN", "PROB_TAT_SHUTTLING_OUT",
	"PROB_mRNA_DEG", "PROB_PROTEIN_DEG_NUC", "PROB_PROTEIN_DEG_CYT", "PROB_PROTEIN_DEG_MEM",
	"GAG_DIFFUSION_PROB", "GAG_DIMER_DIFFUSION_PROB", "PROB_GAG_BOUND_RNA_DIMERS",
	"PROB_RNA_NUCLEATE_TRANSLOCATION", "NUCLEATE_DISS_RATE",
}

// Validate checks parameter ranges and the consistency of the Rev tables.
func (p *Params) Validate() error {
	for _, name := range p.Names() {
		v, _ := p.Get(name)
		if v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, v)
		}
	}
	for _, name := range probabilities {
		v, _ := p.Get(name)
		if v > 1 {
			return fmt.Errorf("%s must be a probability in [0, 1], got %f", name, v)
		}
	}
	if p.MaxRevPerTranscript < 1 {
		return fmt.Errorf("MAX_REV_PER_TRANSCRIPT must be at least 1, got %d", p.MaxRevPerTranscript)
	}
	if p.NumOfRevReqForExport > p.MaxRevPerTranscript {
		return fmt.Errorf("NUM_OF_REV_REQ_FOR_EXPORT must not exceed MAX_REV_PER_TRANSCRIPT (%d), got %d",
			p.MaxRevPerTranscript, p.NumOfRevReqForExport)
	}
	if len(p.RevBindingConstants) != p.MaxRevPerTranscript {
		return fmt.Errorf("REV_BINDING_CONSTANTS must have %d entries, got %d", p.MaxRevPerTranscript, len(p.RevBindingConstants))
	}
	if len(p.RevDissociationConstants) != p.MaxRevPerTranscript {
		return fmt.Errorf("REV_DISSOCIATION_CONSTANTS must have %d entries, got %d", p.MaxRevPerTranscript, len(p.RevDissociationConstants))
	}
	for i := range p.RevBindingConstants {
		if p.RevBindingConstants[i] < 0 || p.RevDissociationConstants[i] < 0 {
			return fmt.Errorf("Rev binding constants must be non-negative, got %f/%f at %d",
				p.RevBindingConstants[i], p.RevDissociationConstants[i], i)
		}
	}
	if p.MaxNumOfProgeny < 1 {
		return fmt.Errorf("MAX_NUM_OF_PROGENY must be positive, got %d", p.MaxNumOfProgeny)
	}
	if p.AvogadroNum <= 0 || p.VolumeCytoplasm <= 0 || p.VolumeNuc <= 0 {
		return fmt.Errorf("AVOGADRO_NUM, VOLUME_CYTOPLASM and VOLUME_NUC must be positive")
	}
	if p.AveGagPerVirion <= 0 {
		return fmt.Errorf("AVE_GAG_PER_VIRON must be positive, got %f", p.AveGagPerVirion)
	}
	return nil
}
