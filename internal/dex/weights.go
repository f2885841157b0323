// Package dex is the pure evaluation engine behind the bot: power scoring,
// catch probability, the caught-collection registry and the quiz distractor
// picker. Nothing here performs I/O; persistence and transport belong to
// the service layer.
package dex

// statWeights biases the power score toward offensive stats. The table is
// fixed for the process lifetime; unknown stat names fall back to
// defaultStatWeight.
var statWeights = map[string]float64{
	"hp":              0.9,
	"attack":          1.2,
	"defense":         0.9,
	"special-attack":  1.0,
	"special-defense": 0.9,
	"speed":           1.1,
}

const defaultStatWeight = 1.0

// StatWeight returns the scoring weight for a stat name.
func StatWeight(name string) float64 {
	if w, ok := statWeights[name]; ok {
		return w
	}
	return defaultStatWeight
}
