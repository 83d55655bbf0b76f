package config

type EnvironmentMode string

const (
	// EM_FULL_ASSERT: every score is recalculated from scratch and must match exactly; a mismatch is fatal.
	EM_FULL_ASSERT EnvironmentMode = "FULL_ASSERT"
	// EM_FAST_ASSERT: every score is recalculated from scratch; a mismatch is logged and the full score wins.
	EM_FAST_ASSERT EnvironmentMode = "FAST_ASSERT"
	// EM_REPRODUCIBLE: no assertion, fixed random seed.
	EM_REPRODUCIBLE EnvironmentMode = "REPRODUCIBLE"
	// EM_NON_REPRODUCIBLE: no assertion, random seed.
	EM_NON_REPRODUCIBLE EnvironmentMode = "NON_REPRODUCIBLE"
)

func (em EnvironmentMode) AssertScoreFromScratch() bool {
	return em == EM_FULL_ASSERT || em == EM_FAST_ASSERT
}

func (em EnvironmentMode) AssertExactScoreFromScratch() bool {
	return em == EM_FULL_ASSERT
}

func (em EnvironmentMode) IsReproducible() bool {
	return em != EM_NON_REPRODUCIBLE
}
