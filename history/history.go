package history

const DEFAULT_CAPACITY = 60

// Ring is a fixed capacity FIFO of samples,
// pushing into a full ring evicts the oldest sample.
type Ring struct {
	samples []float64 // Backing slice, len == capacity
	head    int       // Oldest sample idx
	count   int       // Number of samples held
	sum     float64   // Running sum of held samples
}

func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DEFAULT_CAPACITY
	}
	return &Ring{samples: make([]float64, capacity)}
}

func (r *Ring) Len() int {
	return r.count
}

func (r *Ring) Cap() int {
	return len(r.samples)
}

func (r *Ring) IsEmpty() bool {
	return r.count == 0
}

func (r *Ring) IsFull() bool {
	return r.count == len(r.samples)
}

func (r *Ring) Push(v float64) {
	size := len(r.samples)
	if r.count < size {
		r.samples[(r.head+r.count)%size] = v
		r.count++
		r.sum += v
		return
	}

	// overwrite the oldest one
	r.sum += v - r.samples[r.head]
	r.samples[r.head] = v
	r.head = (r.head + 1) % size
}

// Average returns the arithmetic mean of the held samples, 0 if empty.
func (r *Ring) Average() float64 {
	if r.count == 0 {
		return 0
	}
	// the running sum drifts after many evictions,
	// resum once the ring wraps around
	if r.head == 0 && r.IsFull() {
		r.sum = 0
		for _, v := range r.samples {
			r.sum += v
		}
	}
	return r.sum / float64(r.count)
}

// Values returns a copy of the samples, oldest first.
func (r *Ring) Values() []float64 {
	out := make([]float64, r.count)
	for i := range r.count {
		out[i] = r.samples[(r.head+i)%len(r.samples)]
	}
	return out
}

func (r *Ring) Last() (float64, bool) {
	if r.count == 0 {
		return 0, false
	}
	return r.samples[(r.head+r.count-1)%len(r.samples)], true
}

func (r *Ring) Reset() {
	r.head = 0
	r.count = 0
	r.sum = 0
}
