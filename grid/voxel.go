package grid

import (
	"github.com/chewxy/math32"
)

// viewFlag is the top bit of a Voxel's Views field. It marks "updated during
// the current sensor view but not yet counted"; Grid.UpdateViewCount folds
// the flag into the count at the end of each view. While the flag is set the
// Views field is not a valid count.
const viewFlag uint16 = 0x8000

// viewMax is the largest representable view count. A Views field equal to
// viewFlag|viewMax (0xFFFF) is saturated and never changes again.
const viewMax uint16 = 0x7FFF

// Update is one new sample to fold into a Voxel: a signed distance plus the
// auxiliary centrality, normal-alignment and density scores.
type Update struct {
	Dist float32
	Cent float32
	Norm float32
	Rho  float32
}

// Voxel holds the running statistics for one cell of a Grid. Avg and Var are
// only meaningful while Updates is non-zero; Min holds the
// smallest-magnitude signed distance ever recorded, sign preserved.
type Voxel struct {
	Views   uint16
	Updates uint16

	Min float32
	Avg float32
	Var float32

	Cent float32
	Norm float32
	Rho  float32
}

// Reset restores the voxel to the never-updated state.
func (v *Voxel) Reset() {
	*v = Voxel{Min: math32.MaxFloat32}
}

// Update folds one sample into the voxel's statistics and marks the view
// flag. The mean and variance follow Welford's online algorithm: Var holds
// the population variance, so it is scaled back up to the sum of squared
// differences, adjusted, and divided again on each call. This stays stable
// over thousands of samples where a naive sum-of-squares accumulator would
// not.
func (v *Voxel) Update(u Update) {
	delta := u.Dist - v.Avg

	v.Var *= float32(v.Updates)
	v.Updates++
	v.Avg += delta / float32(v.Updates)
	v.Var += (u.Dist - v.Avg) * delta
	v.Var /= float32(v.Updates)

	// Track the smallest-magnitude distance, not the smallest value.
	if math32.Abs(v.Min) > math32.Abs(u.Dist) {
		v.Min = u.Dist
	}

	if v.Cent < u.Cent {
		v.Cent = u.Cent
	}
	if v.Norm < u.Norm {
		v.Norm = u.Norm
	}
	if v.Rho < u.Rho {
		v.Rho = u.Rho
	}

	v.SetViewFlag()
}

// SetViewFlag marks the voxel as touched during the current sensor view.
func (v *Voxel) SetViewFlag() {
	v.Views |= viewFlag
}

// ClearViewFlag clears the current-view marker.
func (v *Voxel) ClearViewFlag() {
	v.Views &^= viewFlag
}

// ViewFlag reports whether the current-view marker is set.
func (v *Voxel) ViewFlag() bool {
	return v.Views&viewFlag != 0
}

// ViewCount returns the number of completed views that touched this voxel,
// ignoring any pending flag.
func (v *Voxel) ViewCount() uint16 {
	return v.Views &^ viewFlag
}

// UpdateViewCount folds a pending view flag into the view count. Once the
// count saturates at viewMax the voxel is pinned there, flag and all, so
// later views cannot wrap it back to zero.
func (v *Voxel) UpdateViewCount() {
	if v.Views > viewMax && v.Views != viewFlag|viewMax {
		v.Views++
		v.Views &^= viewFlag
	}
}
