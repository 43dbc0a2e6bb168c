package process

import "github.com/virosim/virosim/sim"

// Integration-site effects: measured promoter kinetics of 30 latently
// infected clones (1/min). A clone is drawn uniformly at construction and
// overrides PROMOTER_ON_RATE, PROMOTER_OFF_RATE and BASAL_TRANSCRIPTION_RATE.
var (
	clonePromoterOnRates = [...]float64{
		0.002082159, 0.010435516, 0.000791615, 0.003702661, 0.001898952, 0.002446324, 0.000828923,
		0.001855726, 0.003151476, 0.006005013, 0.004350247, 0.007916149, 0.005351973, 0.007735955,
		0.002744820, 0.001813485, 0.002808756, 0.002621283, 0.004059887, 0.006584366, 0.007735955,
		0.003455524, 0.006434487, 0.005734743, 0.003536014, 0.002130659, 0.006005013, 0.005868322,
		0.006584366, 0.004451578,
	}
	cloneBasalRates = [...]float64{
		3.158958609, 0.104602951, 0.371145275, 0.117366441, 0.250925002, 0.199316814,
		0.630295107, 0.301678205, 0.288100449, 0.165784504, 0.281542482, 0.239631516,
		0.406952701, 0.338488513, 0.870049447, 1.316873128, 1.046029507, 1.201002567,
		0.830890772, 0.512323097, 0.489264759, 1.201002567, 0.675373375, 0.757781390,
		1.228977510, 1.903460792, 0.793494527, 0.811977389, 0.793494527, 1.286897436,
	}
)

const clonePromoterOffRate = 0.066

// Clone is the promoter kinetics of one integration site.
type Clone struct {
	Index     int
	OnRate    float64
	OffRate   float64
	BasalRate float64
}

// NumClones is the number of characterized integration sites.
const NumClones = len(clonePromoterOnRates)

// PickClone draws an integration site uniformly.
func PickClone(rng *sim.RNG) Clone {
	i := rng.IntN(NumClones)
	return Clone{Index: i, OnRate: clonePromoterOnRates[i], OffRate: clonePromoterOffRate, BasalRate: cloneBasalRates[i]}
}
