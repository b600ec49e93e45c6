package grid

// A Processor runs element-wise morphological operations over a Grid. Results
// are staged in a temporary buffer and swapped in at the end of each pass, so
// neighbor tests always see the pre-operation state.
type Processor struct {
	target *Grid
	temp   []Voxel
}

// NewProcessor creates a Processor acting on target.
func NewProcessor(target *Grid) *Processor {
	p := &Processor{}
	p.SetTarget(target)
	return p
}

// SetTarget switches the grid the processor acts on, resizing the staging
// buffer if needed.
func (p *Processor) SetTarget(target *Grid) {
	p.target = target
	if len(p.temp) != target.Len() {
		p.temp = make([]Voxel, target.Len())
	}
}

// Dilate marks every voxel that has at least n known voxels among itself and
// its six face neighbors. Voxels that were already known keep their
// statistics; newly marked ones get a bare single-update record.
func (p *Processor) Dilate(n int) {
	p.operation(func(idx Index) { p.dilate(idx, n) })
}

// Erode clears every voxel that has at least n unknown voxels among itself
// and its six face neighbors; all others are kept unchanged.
func (p *Processor) Erode(n int) {
	p.operation(func(idx Index) { p.erode(idx, n) })
}

func (p *Processor) operation(op func(Index)) {
	p.resetTemp()
	var idx Index
	for z := 0; z < p.target.Props.Size[2]; z++ {
		idx[2] = z
		for y := 0; y < p.target.Props.Size[1]; y++ {
			idx[1] = y
			for x := 0; x < p.target.Props.Size[0]; x++ {
				idx[0] = x
				op(idx)
			}
		}
	}
	p.target.voxels, p.temp = p.temp, p.target.voxels
}

func (p *Processor) resetTemp() {
	for i := range p.temp {
		p.temp[i].Reset()
	}
}

// neighbors6 returns the six face-adjacent indices of idx. Some may lie
// outside the grid; callers must check Valid.
func neighbors6(idx Index) [6]Index {
	return [6]Index{
		{idx[0] - 1, idx[1], idx[2]},
		{idx[0] + 1, idx[1], idx[2]},
		{idx[0], idx[1] - 1, idx[2]},
		{idx[0], idx[1] + 1, idx[2]},
		{idx[0], idx[1], idx[2] - 1},
		{idx[0], idx[1], idx[2] + 1},
	}
}

func (p *Processor) dilate(idx Index, n int) {
	self := p.target.Vox(idx)
	known := 0
	if self.Updates != 0 {
		known = 1
	}
	for _, nb := range neighbors6(idx) {
		if p.target.Valid(nb) && p.target.Vox(nb).Updates != 0 {
			known++
		}
	}
	if known < n {
		return
	}
	out := &p.temp[p.target.linear(idx)]
	if self.Updates != 0 {
		*out = *self
	} else {
		out.Updates = 1
	}
}

func (p *Processor) erode(idx Index, n int) {
	self := p.target.Vox(idx)
	unknown := 0
	if self.Updates == 0 {
		unknown = 1
	}
	for _, nb := range neighbors6(idx) {
		if p.target.Valid(nb) && p.target.Vox(nb).Updates == 0 {
			unknown++
		}
	}
	// At or above the threshold the staged voxel stays reset.
	if unknown < n {
		p.temp[p.target.linear(idx)] = *self
	}
}
