package record

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/virosim/virosim/sim"
)

// derivation computes one key from the rows of its dependencies at a
// single sampled step.
type derivation struct {
	name string
	deps []string
	fn   func(in map[string][]float64) []float64
}

// Multi-spliced forms grouped by the protein they encode.
var (
	multiTat = []int{1, 7, 12}
	multiRev = []int{2, 3, 4, 8, 9, 10, 13, 14, 15}
	multiNef = []int{5, 11, 16}
)

var envERKeys = []string{
	sim.EnvER.Key(), sim.EnvERG1.Key(), sim.EnvERG2.Key(), sim.EnvERG3.Key(),
	sim.EnvERG3Folded.Key(), sim.EnvERG4Folded.Key(),
}

var envGolgiKeys = []string{sim.EnvGolgi.Key(), sim.EnvGolgiG5.Key(), sim.EnvGolgiG5Error.Key()}

func add(rows ...[]float64) []float64 {
	n := 0
	for _, r := range rows {
		n = max(n, len(r))
	}
	out := make([]float64, n)
	for _, r := range rows {
		for i, v := range r {
			out[i] += v
		}
	}
	return out
}

// scalar returns the first element of a scalar row.
func scalar(r []float64) float64 {
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

func pick(r []float64, idx []int) float64 {
	s := 0.0
	for _, i := range idx {
		if i < len(r) {
			s += r[i]
		}
	}
	return s
}

// singleForm returns the bins of single-spliced form f across Rev levels.
func singleForm(r []float64, f int) []float64 {
	var out []float64
	for i := f; i < len(r); i += sim.SingleSpliceForms {
		out = append(out, r[i])
	}
	return out
}

func perForm(r []float64) []float64 {
	out := make([]float64, sim.SingleSpliceForms)
	for f := range out {
		out[f] = floats.Sum(singleForm(r, f))
	}
	return out
}

// byProduct groups transcripts by protein product: Vif, Vpr, Tat, Env, Rev,
// Nef, Gag/Pol.
func byProduct(full, single, multi []float64) []float64 {
	forms := perForm(single)
	return []float64{
		forms[0] + pick(multi, []int{0}),
		forms[1] + pick(multi, []int{6}),
		forms[2] + pick(multi, multiTat),
		forms[3] + forms[4] + forms[5] + forms[6],
		pick(multi, multiRev),
		pick(multi, multiNef),
		floats.Sum(full),
	}
}

func sumsOf(in map[string][]float64, keys ...string) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = floats.Sum(in[k])
	}
	return out
}

var derivations = buildDerivations()

func buildDerivations() []derivation {
	d := []derivation{
		{
			name: "total_proteins",
			deps: []string{"proteins_nuc", "proteins_cyt", "proteins_mem", "proteins_virion"},
			fn: func(in map[string][]float64) []float64 {
				return add(in["proteins_nuc"], in["proteins_cyt"], in["proteins_mem"], in["proteins_virion"])
			},
		},
		{
			name: "total_env_various_places",
			deps: append(append(append([]string{"env_cyt"}, envERKeys...), envGolgiKeys...),
				"env_trimers", "env_trimers_cleaved", "env_trimers_membrane", "total_num_of_virion_Env_trimer"),
			fn: func(in map[string][]float64) []float64 {
				er := 0.0
				for _, k := range envERKeys {
					er += scalar(in[k])
				}
				golgi := 0.0
				for _, k := range envGolgiKeys {
					golgi += scalar(in[k])
				}
				golgi += 3 * (floats.Sum(in["env_trimers"]) + floats.Sum(in["env_trimers_cleaved"]))
				return []float64{
					scalar(in["env_cyt"]), er, golgi,
					3 * floats.Sum(in["env_trimers_membrane"]),
					3 * floats.Sum(in["total_num_of_virion_Env_trimer"]),
				}
			},
		},
		{
			name: "all_ER_forms",
			deps: envERKeys,
			fn: func(in map[string][]float64) []float64 {
				out := make([]float64, len(envERKeys))
				for i, k := range envERKeys {
					out[i] = scalar(in[k])
				}
				return out
			},
		},
		{
			name: "all_Golgi_forms",
			deps: append(append([]string(nil), envGolgiKeys...), "env_trimers", "env_trimers_cleaved"),
			fn: func(in map[string][]float64) []float64 {
				out := make([]float64, 0, len(envGolgiKeys)+2)
				for _, k := range envGolgiKeys {
					out = append(out, scalar(in[k]))
				}
				return append(out, 3*floats.Sum(in["env_trimers"]), 3*floats.Sum(in["env_trimers_cleaved"]))
			},
		},
		{
			name: "proteins_in_nuc_and_cyt",
			deps: []string{"proteins_nuc", "proteins_cyt"},
			fn: func(in map[string][]float64) []float64 {
				return add(in["proteins_nuc"], in["proteins_cyt"])
			},
		},
		{
			name: "total_proteins_nuc",
			deps: []string{"proteins_nuc"},
			fn:   func(in map[string][]float64) []float64 { return sumsOf(in, "proteins_nuc") },
		},
		{
			name: "total_proteins_cyt",
			deps: []string{"proteins_cyt"},
			fn:   func(in map[string][]float64) []float64 { return sumsOf(in, "proteins_cyt") },
		},
		{
			name: "total_single_spliced_mRNA_nuc",
			deps: []string{"single_splice_transcript_nuc"},
			fn:   func(in map[string][]float64) []float64 { return perForm(in["single_splice_transcript_nuc"]) },
		},
		{
			name: "total_single_spliced_mRNA_cyt",
			deps: []string{"single_splice_transcript_cyt"},
			fn:   func(in map[string][]float64) []float64 { return perForm(in["single_splice_transcript_cyt"]) },
		},
		{
			name: "full_single_multi_mRNA_nuc",
			deps: []string{"full_len_transcripts_nuc", "single_splice_transcript_nuc", "multi_splice_transcript_nuc"},
			fn: func(in map[string][]float64) []float64 {
				return sumsOf(in, "full_len_transcripts_nuc", "single_splice_transcript_nuc", "multi_splice_transcript_nuc")
			},
		},
		{
			name: "full_single_multi_mRNA_cyt",
			deps: []string{"full_len_transcripts_cyt", "single_splice_transcript_cyt", "multi_splice_transcript_cyt"},
			fn: func(in map[string][]float64) []float64 {
				return sumsOf(in, "full_len_transcripts_cyt", "single_splice_transcript_cyt", "multi_splice_transcript_cyt")
			},
		},
		{
			name: "mRNA_by_protein_product_nuc",
			deps: []string{"full_len_transcripts_nuc", "single_splice_transcript_nuc", "multi_splice_transcript_nuc"},
			fn: func(in map[string][]float64) []float64 {
				return byProduct(in["full_len_transcripts_nuc"], in["single_splice_transcript_nuc"], in["multi_splice_transcript_nuc"])
			},
		},
		{
			name: "mRNA_by_protein_product_cyt",
			deps: []string{"full_len_transcripts_cyt", "single_splice_transcript_cyt", "multi_splice_transcript_cyt"},
			fn: func(in map[string][]float64) []float64 {
				return byProduct(in["full_len_transcripts_cyt"], in["single_splice_transcript_cyt"], in["multi_splice_transcript_cyt"])
			},
		},
		{
			name: "Prebudded_count",
			deps: []string{"progeny_state_count"},
			fn: func(in map[string][]float64) []float64 {
				return []float64{pick(in["progeny_state_count"], []int{int(sim.VirionPrebudding) - 1})}
			},
		},
	}
	for _, loc := range []string{"nuc", "cyt"} {
		src := "single_splice_transcript_" + loc
		for f := 0; f < sim.SingleSpliceForms; f++ {
			d = append(d, derivation{
				name: fmt.Sprintf("%s_%d", src, f+1),
				deps: []string{src},
				fn:   func(in map[string][]float64) []float64 { return singleForm(in[src], f) },
			})
		}
	}
	d = append(d,
		combined("full_single_multi_mRNA", "full_single_multi_mRNA_nuc", "full_single_multi_mRNA_cyt"),
		combined("mRNA_by_protein_product", "mRNA_by_protein_product_nuc", "mRNA_by_protein_product_cyt"),
		combined("total_single_spliced_mRNA", "total_single_spliced_mRNA_nuc", "total_single_spliced_mRNA_cyt"),
	)
	return d
}

// combined sums two previously derived keys.
func combined(name, a, b string) derivation {
	return derivation{
		name: name,
		deps: []string{a, b},
		fn:   func(in map[string][]float64) []float64 { return add(in[a], in[b]) },
	}
}

// DerivedKeys returns the names GenerateDerived can produce, in order.
func DerivedKeys() []string {
	out := make([]string, len(derivations))
	for i, d := range derivations {
		out[i] = d.name
	}
	return out
}

// GenerateDerived adds every derived key whose dependencies were recorded
// and returns how many were added. Dependencies are sampled at the same
// steps, so rows align by index.
func GenerateDerived(m *Memory) int {
	added := 0
	for _, d := range derivations {
		if _, done := m.series[d.name]; done {
			continue
		}
		var base *Series
		ok := true
		for _, dep := range d.deps {
			s, found := m.series[dep]
			if !found {
				ok = false
				break
			}
			if base == nil || s.Len() < base.Len() {
				base = s
			}
		}
		if !ok || base == nil {
			continue
		}
		in := make(map[string][]float64, len(d.deps))
		for i := 0; i < base.Len(); i++ {
			for _, dep := range d.deps {
				in[dep] = m.series[dep].Rows[i]
			}
			m.put(d.name, base.Steps[i], d.fn(in))
		}
		added++
	}
	return added
}
