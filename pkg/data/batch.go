package data

// Sample represents a single data point.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of data points.
type Batch struct {
	X [][]float64
	Y []float64
}

// Stream emits the rows of X and y as Samples in order, closing out when done.
// Close the returned done chan to stop early.
func Stream(X [][]float64, y []float64, out chan<- Sample) (done chan struct{}) {
	done = make(chan struct{})
	go func() {
		defer close(out)
		for i := range X {
			select {
			case <-done:
				return
			case out <- Sample{X: X[i], Y: y[i]}:
			}
		}
	}()
	return done
}

// Batcher reads from a Sample channel and emits mini-batches of batchSize;
// the last batch may be smaller. Close the returned done chan to stop early.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})
	if batchSize < 1 {
		batchSize = 1
	}

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64
		for {
			select {
			case <-done:
				return
			case s, ok := <-in:
				if !ok {
					// flush the partial tail batch
					if len(Y) > 0 {
						select {
						case out <- Batch{X: X, Y: Y}:
						case <-done:
						}
					}
					return
				}
				X = append(X, s.X)
				Y = append(Y, s.Y)
				if len(Y) == batchSize {
					select {
					case out <- Batch{X: X, Y: Y}:
					case <-done:
						return
					}
					X = nil
					Y = nil
				}
			}
		}
	}()
	return done
}

// Batches is the synchronous form of Stream+Batcher.
func Batches(X [][]float64, y []float64, batchSize int) []Batch {
	samples := make(chan Sample)
	batches := make(chan Batch)
	Stream(X, y, samples)
	Batcher(samples, batchSize, batches)

	var out []Batch
	for b := range batches {
		out = append(out, b)
	}
	return out
}
