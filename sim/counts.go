package sim

// Conserved totals. Each process either conserves these exactly or changes
// them only through synthesis and degradation.

// CountTotalRev counts Rev in every form: free in the nucleus, cytoplasm and
// membrane, and bound to full-length or single-spliced transcripts.
func CountTotalRev(s *State) int {
	p, m := s.Proteins, s.MRNAs
	total := p.Nuc[Rev] + p.Cyt[Rev] + p.Mem[Rev]
	for i := 0; i <= m.MaxRev; i++ {
		total += i * (m.FullNuc[i] + m.FullCyt[i])
		for f := 0; f < SingleSpliceForms; f++ {
			idx := SingleIndex(i, f)
			total += i * (m.SingleNuc[idx] + m.SingleCyt[idx])
		}
	}
	return total
}

// CountTotalTat counts free Tat plus Tat bound in pTEFb complexes.
func CountTotalTat(s *State) int {
	p, h := s.Proteins, s.HostFactors
	return p.Nuc[Tat] + p.Cyt[Tat] + p.Mem[Tat] + h.TatPTEFbDeacetyl + h.TatPTEFbAcetyl
}

// CountTotalPTEFb counts free pTEFb plus pTEFb bound to Tat.
func CountTotalPTEFb(s *State) int {
	h := s.HostFactors
	return h.PTEFbNuc + h.TatPTEFbDeacetyl + h.TatPTEFbAcetyl
}

// CountTotalGag counts Gag molecules in every form: free monomers and dimers
// in cytoplasm and membrane, Gag bound to transcript stem loops, and Gag
// assembled into progeny.
func CountTotalGag(s *State) int {
	p, m := s.Proteins, s.MRNAs
	total := p.Cyt[Gag] + p.Mem[Gag] + p.Nuc[Gag] + 2*(p.Cyt[GagDimers]+p.Mem[GagDimers]+p.Nuc[GagDimers])
	for idx, n := range m.GagBound {
		total += StemLoops.Multiplicity[idx] * n
	}
	return total + s.Progeny.Total(Gag)
}

// CountTotalGagMRNA counts full-length transcripts in the nucleus, cytoplasm,
// Gag-bound, and packaged as genome pairs in progeny.
func CountTotalGagMRNA(s *State) int {
	m := s.MRNAs
	total := 2 * s.Progeny.Len()
	for _, n := range m.FullNuc {
		total += n
	}
	for _, n := range m.FullCyt {
		total += n
	}
	for _, n := range m.GagBound {
		total += n
	}
	return total
}

// CountTotalEnv counts Env monomers in the cytoplasm and pipeline plus three
// per trimer wherever the trimer is.
func CountTotalEnv(s *State) int {
	p := s.Proteins
	total := p.Cyt[Env]
	for _, n := range p.EnvStages {
		total += n
	}
	for k := 0; k < EnvTrimerClasses; k++ {
		total += 3 * (p.EnvTrimers[k] + p.EnvCleaved[k] + p.EnvMembrane[k])
	}
	env := s.Progeny.EnvTrimerTotals()
	for _, n := range env {
		total += 3 * n
	}
	return total
}
