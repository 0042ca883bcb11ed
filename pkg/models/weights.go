package models

// WeightState maps each category to a positive confidence multiplier.
// Mutated only by the weight optimizer; classifier and router read it.
type WeightState map[Category]float64

// DefaultWeights returns the initial weight state (1.0 for every category)
func DefaultWeights() WeightState {
	w := make(WeightState, len(AllCategories))
	for _, c := range AllCategories {
		w[c] = 1.0
	}
	return w
}

// Get returns the weight for a category, defaulting to 1.0 when unset
func (w WeightState) Get(c Category) float64 {
	if v, ok := w[c]; ok {
		return v
	}
	return 1.0
}

// Clone returns an independent copy of the weight state
func (w WeightState) Clone() WeightState {
	out := make(WeightState, len(w))
	for c, v := range w {
		out[c] = v
	}
	return out
}
