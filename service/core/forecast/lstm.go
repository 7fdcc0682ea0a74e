package forecast

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// SequenceModel predicts the next scaled value from a scaled window
type SequenceModel interface {
	Predict(window []float64) float64
}

// SequenceTrainer is the fit half, kept separate so callers can swap in a pre fit model
type SequenceTrainer interface {
	Fit(ctx context.Context, windows [][]float64, targets []float64) (SequenceModel, error)
}

type LSTMSettings struct {
	HiddenSize   int
	Epochs       int
	BatchSize    int
	LearningRate float64
	ClipNorm     float64
	Seed         uint64
}

// LSTMTrainer trains a single layer lstm with a sigmoid output unit by bptt and adam
type LSTMTrainer struct {
	Settings LSTMSettings
}

func NewLSTMTrainer(settings LSTMSettings) *LSTMTrainer {
	if settings.HiddenSize <= 0 {
		settings.HiddenSize = 16
	}
	if settings.Epochs <= 0 {
		settings.Epochs = 60
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = 16
	}
	if settings.LearningRate <= 0 {
		settings.LearningRate = 0.01
	}
	if settings.ClipNorm <= 0 {
		settings.ClipNorm = 1
	}
	return &LSTMTrainer{Settings: settings}
}

// LSTM holds every weight in one flat slice so adam and clipping work on a single vector.
// Gate rows are ordered input, forget, cell, output.
type LSTM struct {
	hidden int
	theta  []float64

	// offsets into theta
	wx, wh, b, wy, by int
}

func newLSTM(hidden int) *LSTM {
	g := 4 * hidden
	l := &LSTM{hidden: hidden}
	l.wx = 0
	l.wh = l.wx + g
	l.b = l.wh + g*hidden
	l.wy = l.b + g
	l.by = l.wy + hidden
	l.theta = make([]float64, l.by+1)
	return l
}

func (l *LSTM) init(rng *rand.Rand) {
	bound := 1 / math.Sqrt(float64(l.hidden))
	for i := range l.theta {
		l.theta[i] = (2*rng.Float64() - 1) * bound
	}
	// forget gate bias starts at one
	for j := range l.hidden {
		l.theta[l.b+l.hidden+j] = 1
	}
}

type lstmStep struct {
	x                float64
	hPrev, cPrev     []float64
	i, f, g, o, c, h []float64
}

func (l *LSTM) forward(window []float64) (float64, []lstmStep) {
	H := l.hidden
	h := make([]float64, H)
	c := make([]float64, H)
	steps := make([]lstmStep, len(window))

	wh := l.theta[l.wh:l.b]
	for t, x := range window {
		st := lstmStep{
			x:     x,
			hPrev: h,
			cPrev: c,
			i:     make([]float64, H),
			f:     make([]float64, H),
			g:     make([]float64, H),
			o:     make([]float64, H),
			c:     make([]float64, H),
			h:     make([]float64, H),
		}

		for gate := range 4 {
			for j := range H {
				row := gate*H + j
				z := l.theta[l.wx+row]*x + l.theta[l.b+row] + floats.Dot(wh[row*H:(row+1)*H], h)
				switch gate {
				case 0:
					st.i[j] = sigmoid(z)
				case 1:
					st.f[j] = sigmoid(z)
				case 2:
					st.g[j] = math.Tanh(z)
				case 3:
					st.o[j] = sigmoid(z)
				}
			}
		}

		for j := range H {
			st.c[j] = st.f[j]*c[j] + st.i[j]*st.g[j]
			st.h[j] = st.o[j] * math.Tanh(st.c[j])
		}

		h, c = st.h, st.c
		steps[t] = st
	}

	out := sigmoid(floats.Dot(l.theta[l.wy:l.by], h) + l.theta[l.by])
	return out, steps
}

// Predict implements SequenceModel
func (l *LSTM) Predict(window []float64) float64 {
	out, _ := l.forward(window)
	return out
}

// backward adds the gradient of scale*(out-target)^2 into grad and returns the loss
func (l *LSTM) backward(window []float64, target, scale float64, grad []float64) float64 {
	H := l.hidden
	out, steps := l.forward(window)
	diff := out - target

	dOut := 2 * diff * scale * out * (1 - out)
	last := steps[len(steps)-1].h
	for j := range H {
		grad[l.wy+j] += dOut * last[j]
	}
	grad[l.by] += dOut

	dh := make([]float64, H)
	for j := range H {
		dh[j] = dOut * l.theta[l.wy+j]
	}
	dc := make([]float64, H)
	dz := make([]float64, 4*H)

	for t := len(steps) - 1; t >= 0; t-- {
		st := steps[t]
		for j := range H {
			tc := math.Tanh(st.c[j])
			do := dh[j] * tc
			dcj := dc[j] + dh[j]*st.o[j]*(1-tc*tc)

			di := dcj * st.g[j]
			dg := dcj * st.i[j]
			df := dcj * st.cPrev[j]
			dc[j] = dcj * st.f[j]

			dz[j] = di * st.i[j] * (1 - st.i[j])
			dz[H+j] = df * st.f[j] * (1 - st.f[j])
			dz[2*H+j] = dg * (1 - st.g[j]*st.g[j])
			dz[3*H+j] = do * st.o[j] * (1 - st.o[j])
		}

		next := make([]float64, H)
		for row := range 4 * H {
			if dz[row] == 0 {
				continue
			}
			grad[l.wx+row] += dz[row] * st.x
			grad[l.b+row] += dz[row]
			base := l.wh + row*H
			for k := range H {
				grad[base+k] += dz[row] * st.hPrev[k]
				next[k] += dz[row] * l.theta[base+k]
			}
		}
		dh = next
	}

	return diff * diff
}

// Fit implements SequenceTrainer. The same seed and data always give the same model.
func (tr *LSTMTrainer) Fit(ctx context.Context, windows [][]float64, targets []float64) (SequenceModel, error) {
	if len(windows) == 0 || len(windows) != len(targets) {
		return nil, ErrInsufficientHistory
	}

	s := tr.Settings
	rng := rand.New(rand.NewPCG(s.Seed, 0x5eed))
	model := newLSTM(s.HiddenSize)
	model.init(rng)

	n := len(model.theta)
	grad := make([]float64, n)
	m1 := make([]float64, n)
	m2 := make([]float64, n)
	const beta1, beta2, eps = 0.9, 0.999, 1e-8

	order := make([]int, len(windows))
	for i := range order {
		order[i] = i
	}

	step := 0
	for epoch := range s.Epochs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled at epoch %d: %w", epoch, err)
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var epochLoss float64
		for startIdx := 0; startIdx < len(order); startIdx += s.BatchSize {
			batch := order[startIdx:min(startIdx+s.BatchSize, len(order))]
			clear(grad)

			scale := 1 / float64(len(batch))
			for _, idx := range batch {
				epochLoss += model.backward(windows[idx], targets[idx], scale, grad)
			}

			if norm := floats.Norm(grad, 2); norm > s.ClipNorm {
				floats.Scale(s.ClipNorm/norm, grad)
			}

			step++
			c1 := 1 - math.Pow(beta1, float64(step))
			c2 := 1 - math.Pow(beta2, float64(step))
			for k, gk := range grad {
				m1[k] = beta1*m1[k] + (1-beta1)*gk
				m2[k] = beta2*m2[k] + (1-beta2)*gk*gk
				model.theta[k] -= s.LearningRate * (m1[k] / c1) / (math.Sqrt(m2[k]/c2) + eps)
			}
		}

		if math.IsNaN(epochLoss) || math.IsInf(epochLoss, 0) {
			return nil, fmt.Errorf("%w: loss diverged at epoch %d", ErrTrainingFailed, epoch)
		}
	}

	return model, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
