package metrics

// Delivery is the fraction of frames the pixel sink accepted.
type Delivery struct {
	name    string
	dropped int
	samples int
}

func NewDelivery() *Delivery {
	return &Delivery{name: "delivery"}
}

func (d *Delivery) Name() string { return d.name }

func (d *Delivery) Observe(err error) {
	d.samples++
	if err != nil {
		d.dropped++
	}
}

func (d *Delivery) Dropped() int { return d.dropped }

func (d *Delivery) Value() float64 {
	if d.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(d.dropped)/float64(d.samples)
}

func (d *Delivery) Reset() {
	d.dropped = 0
	d.samples = 0
}
