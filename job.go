package ptouch

// Label pairs a rendered bitmap with the tape it is meant for. The driver
// treats the bitmap as read-only and never retains it past the job.
type Label struct {
	Bitmap Bitmap
	Tape   Tape
}

// Job is one label together with its print settings, for batches that mix
// configurations. A change of resolution or compression between adjacent
// jobs restarts the whole command sequence on the printer.
type Job struct {
	Label  *Label
	Config Config
}

// Printer drives one physical printer over a connection it owns
// exclusively. It is not safe for concurrent use; hosts wanting parallel
// callers are expected to serialize access themselves.
type Printer struct {
	Model *Model

	conn   Conn
	opened bool
}

// NewPrinter binds a model descriptor to a transport. The connection is
// only opened once there are bytes to send.
func NewPrinter(m *Model, c Conn) *Printer {
	return &Printer{Model: m, conn: c}
}

// Print prints a single label.
func (p *Printer) Print(l *Label, cfg Config) error {
	return p.PrintJobs([]Job{{Label: l, Config: cfg}})
}

// PrintMulti prints a batch of labels with shared settings over a single
// connection cycle. With HalfCut set, labels stay chained on the backing
// liner, half-cut at each boundary and fully cut only at the very end.
func (p *Printer) PrintMulti(labels []*Label, cfg Config) error {
	jobs := make([]Job, len(labels))
	for i, l := range labels {
		jobs[i] = Job{Label: l, Config: cfg}
	}
	return p.PrintJobs(jobs)
}

// PrintJobs prints a batch of labels, each with its own settings.
// Everything is validated before the first byte goes out; once streaming
// starts, a failure aborts the batch and propagates with its cause.
// Each label is fully transmitted before the next one is encoded.
func (p *Printer) PrintJobs(jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	// Fail fast: resolve every layout and validate every configuration
	// against the model while the wire is still untouched.
	type run struct {
		// cfg is the configuration as requested, which the builder may
		// have extended, so it is what grouping compares against.
		cfg     Config
		builder *frameBuilder
		jobs    []Job
		layouts []TapeConfig
	}
	var runs []*run
	for _, j := range jobs {
		if j.Label == nil || j.Label.Bitmap == nil {
			return errf(KindNotFound, nil, "job without a label bitmap")
		}
		tc, err := p.Model.Layout(j.Label.Tape)
		if err != nil {
			return err
		}
		if bounds := j.Label.Bitmap.Bounds(); bounds.Dy() > tc.PrintPins {
			return errf(KindUnsupportedFeature, nil,
				"bitmap is %d pixels high, %s on %s can print %d",
				bounds.Dy(), j.Label.Tape, p.Model, tc.PrintPins)
		}

		if len(runs) == 0 || runs[len(runs)-1].cfg != j.Config {
			fb, err := newFrameBuilder(p.Model, j.Config)
			if err != nil {
				return err
			}
			runs = append(runs, &run{cfg: j.Config, builder: fb})
		}
		r := runs[len(runs)-1]
		r.jobs = append(r.jobs, j)
		r.layouts = append(r.layouts, tc)
	}

	defer p.release()

	for _, r := range runs {
		fb := r.builder
		if err := fb.begin(); err != nil {
			return err
		}
		if err := fb.modeSet(); err != nil {
			return err
		}
		if err := p.send(fb.take()); err != nil {
			return err
		}

		for i, j := range r.jobs {
			err := fb.page(j.Label.Bitmap, j.Label.Tape, r.layouts[i],
				i == 0, i == len(r.jobs)-1)
			if err != nil {
				return err
			}
			if err := p.send(fb.take()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Status asks the printer for a status packet and decodes it. It needs
// a transport that can read; plain one-way spoolers cannot do this.
func (p *Printer) Status() (*Status, error) {
	// The handshake opens the connection, so account for it up front,
	// and release it on failure the way the print paths do.
	p.opened = true
	status, err := RequestStatus(p.conn)
	if err != nil {
		p.release()
		return nil, err
	}
	return status, nil
}

// Close releases the connection if it is open. Print calls do this on
// their own; it only matters after Status or after reusing a Printer.
func (p *Printer) Close() error {
	if !p.opened {
		return nil
	}
	p.opened = false
	return p.conn.Close()
}

// send lazily opens the connection before the first byte.
func (p *Printer) send(data []byte) error {
	if !p.opened {
		if err := p.conn.Open(); err != nil {
			return err
		}
		p.opened = true
	}
	return p.conn.Write(data)
}

// release closes the connection on every exit path of a job, so that
// a failed print never leaves a dangling socket or device handle behind.
func (p *Printer) release() {
	if p.opened {
		p.opened = false
		p.conn.Close()
	}
}

// RequestStatus performs the status request handshake on any readable
// transport, without needing a model descriptor.
func RequestStatus(c Conn) (*Status, error) {
	r, ok := c.(StatusReader)
	if !ok {
		return nil, errf(KindUnsupportedFeature, nil,
			"this connection cannot read printer status")
	}
	if err := c.Open(); err != nil {
		return nil, err
	}

	// Invalidate first, in the reference manner, to flush half-received
	// commands of crashed jobs before asking.
	if err := c.Write(make([]byte, invalidateLength)); err != nil {
		return nil, err
	}
	if err := c.Write(cmdInitialize); err != nil {
		return nil, err
	}
	if err := c.Write(cmdStatusRequest); err != nil {
		return nil, err
	}

	var status Status
	for read := 0; read < len(status); {
		n, err := r.Read(status[read:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errf(KindTimeout, nil, "empty status read")
		}
		read += n
	}
	return &status, nil
}

// PrintPins is a convenience for renderers: the printable pixel height
// for a tape on this model, or an error when the tape is unsupported.
func (p *Printer) PrintPins(t Tape) (int, error) {
	tc, err := p.Model.Layout(t)
	if err != nil {
		return 0, err
	}
	return tc.PrintPins, nil
}
