package forecast

// MakeWindows pairs every run of size consecutive values with the value after it
func MakeWindows(data []float64, size int) ([][]float64, []float64) {
	if size <= 0 || len(data) <= size {
		return nil, nil
	}

	n := len(data) - size
	windows := make([][]float64, n)
	targets := make([]float64, n)
	for i := range n {
		w := make([]float64, size)
		copy(w, data[i:i+size])
		windows[i] = w
		targets[i] = data[i+size]
	}

	return windows, targets
}

// PredictForward feeds each prediction back in, dropping the oldest value, and returns
// exactly numSteps values in price units. window is in scaled units.
func PredictForward(model SequenceModel, scaler MinMaxScaler, window []float64, numSteps int) []float64 {
	if numSteps <= 0 || len(window) == 0 {
		return nil
	}

	input := make([]float64, len(window))
	copy(input, window)

	scaled := make([]float64, 0, numSteps)
	for range numSteps {
		// the scaler range is the training range, keep predictions inside it
		next := min(max(model.Predict(input), 0), 1)
		scaled = append(scaled, next)
		input = append(input[1:], next)
	}

	return scaler.Inverse(scaled)
}
