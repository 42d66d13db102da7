package risk

// calibrationCase is a labeled exemplar used to judge candidate networks
// during evolution. Fraudulent cases should score high, benign ones low.
type calibrationCase struct {
	features [FeatureCount]float64
	fraud    bool
}

// calibrationSet spans small routine payments through large off-hours moves
// to unseen destinations. The vectors are already normalized feature space,
// not raw events.
var calibrationSet = []calibrationCase{
	{features: [FeatureCount]float64{0.15, 0.3, 0.3, 0.02, 0.25, 1.0, 0.9, 0.4}, fraud: false},
	{features: [FeatureCount]float64{0.25, 0.4, 0.35, 0.05, 0.3, 0.9, 0.95, 0.45}, fraud: false},
	{features: [FeatureCount]float64{0.1, 0.25, 0.25, 0.01, 0.2, 1.0, 0.85, 0.35}, fraud: false},
	{features: [FeatureCount]float64{0.35, 0.5, 0.4, 0.1, 0.4, 0.8, 0.9, 0.5}, fraud: false},
	{features: [FeatureCount]float64{0.95, 0.9, 0.8, 0.6, 0.95, 0.1, 0.2, 0.9}, fraud: true},
	{features: [FeatureCount]float64{0.9, 0.85, 0.9, 0.5, 0.9, 0.0, 0.1, 0.85}, fraud: true},
	{features: [FeatureCount]float64{0.85, 0.95, 0.7, 0.7, 0.85, 0.2, 0.3, 0.95}, fraud: true},
	{features: [FeatureCount]float64{1.0, 0.8, 0.85, 0.55, 1.0, 0.1, 0.15, 0.8}, fraud: true},
}

// CalibrationFitness scores a network by its margin on the calibration set:
// fraudulent exemplars pull toward 1, benign toward 0. Higher is better.
func CalibrationFitness() func(*Network) float64 {
	return func(n *Network) float64 {
		var margin float64
		for _, c := range calibrationSet {
			score, _ := n.Forward(c.features)
			if c.fraud {
				margin += score
			} else {
				margin += 1 - score
			}
		}
		return margin / float64(len(calibrationSet))
	}
}
