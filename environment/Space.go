package environment

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Space describes the layout of the actions or observations of a
// single simulation instance. A Space never depends on how many
// instances are run in parallel.
//
// Values in a Space are handled in their flattened form, a []float64
// of length Len(). Composite spaces flatten their sub-spaces in order.
type Space interface {
	fmt.Stringer

	// Len returns the number of elements in a flattened value
	Len() int

	// Cardinality returns whether the values in the space are discrete
	// or continuous
	Cardinality() Cardinality

	// Contains returns whether the flattened value x is in the space
	Contains(x []float64) bool

	// Sample takes a flattened sample from within the space's bounds
	Sample() []float64

	// Seed seeds the sampler for the space
	Seed(seed uint64)
}

// BoxSpace is a continuous space bounded element-wise by Low and High
type BoxSpace struct {
	Low   *mat.VecDense
	High  *mat.VecDense
	shape []int
	rng   rand.Source
}

// NewBox returns a new BoxSpace with the given element-wise bounds. If no
// shape is given, the BoxSpace is one dimensional. The product of the
// shape must equal the number of bounds.
func NewBox(low, high []float64, shape ...int) (*BoxSpace, error) {
	if len(low) != len(high) {
		return nil, fmt.Errorf("newBox: lower bounds length %v must match "+
			"upper bounds length %v", len(low), len(high))
	}
	if len(low) == 0 {
		return nil, fmt.Errorf("newBox: box must have at least one element")
	}
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("newBox: lower bound %v exceeds upper "+
				"bound %v at index %v", low[i], high[i], i)
		}
	}

	if len(shape) == 0 {
		shape = []int{len(low)}
	}
	size := 1
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("newBox: illegal dimension %v in shape %v",
				dim, shape)
		}
		size *= dim
	}
	if size != len(low) {
		return nil, fmt.Errorf("newBox: shape %v holds %v elements but %v "+
			"bounds were given", shape, size, len(low))
	}

	return &BoxSpace{
		Low:   mat.NewVecDense(len(low), append([]float64(nil), low...)),
		High:  mat.NewVecDense(len(high), append([]float64(nil), high...)),
		shape: append([]int(nil), shape...),
		rng:   rand.NewSource(0),
	}, nil
}

// Shape returns the unflattened shape of values in the BoxSpace
func (b *BoxSpace) Shape() []int {
	return append([]int(nil), b.shape...)
}

// Len returns the number of elements in a flattened value
func (b *BoxSpace) Len() int {
	return b.Low.Len()
}

// Cardinality implements the Space interface
func (b *BoxSpace) Cardinality() Cardinality {
	return Continuous
}

// Bounds returns the bounds of each element as intervals
func (b *BoxSpace) Bounds() []r1.Interval {
	bounds := make([]r1.Interval, b.Len())
	for i := range bounds {
		bounds[i] = r1.Interval{Min: b.Low.AtVec(i), Max: b.High.AtVec(i)}
	}
	return bounds
}

// Contains implements the Space interface
func (b *BoxSpace) Contains(x []float64) bool {
	if len(x) != b.Len() {
		return false
	}
	for i, v := range x {
		if math.IsNaN(v) || v < b.Low.AtVec(i) || v > b.High.AtVec(i) {
			return false
		}
	}
	return true
}

// Sample implements the Space interface. Bounded elements are sampled
// uniformly, unbounded elements are sampled from a standard normal.
func (b *BoxSpace) Sample() []float64 {
	bounds := b.Bounds()
	if bounded(bounds) {
		return distmv.NewUniform(bounds, b.rng).Rand(nil)
	}

	sample := make([]float64, len(bounds))
	for i, bound := range bounds {
		if math.IsInf(bound.Min, 0) || math.IsInf(bound.Max, 0) {
			normal := distuv.Normal{Mu: 0, Sigma: 1, Src: b.rng}
			sample[i] = math.Max(bound.Min, math.Min(bound.Max, normal.Rand()))
			continue
		}
		uniform := distuv.Uniform{Min: bound.Min, Max: bound.Max, Src: b.rng}
		sample[i] = uniform.Rand()
	}
	return sample
}

// Seed implements the Space interface
func (b *BoxSpace) Seed(seed uint64) {
	b.rng = rand.NewSource(seed)
}

func (b *BoxSpace) String() string {
	return fmt.Sprintf("Box(%v, %v, %v)", mat.Formatted(b.Low.T(), mat.Squeeze()),
		mat.Formatted(b.High.T(), mat.Squeeze()), b.shape)
}

func bounded(bounds []r1.Interval) bool {
	for _, bound := range bounds {
		if math.IsInf(bound.Min, 0) || math.IsInf(bound.Max, 0) {
			return false
		}
	}
	return true
}

// DiscreteSpace is the space of integers {0, 1, ..., N-1}. Its flattened
// values have a single element.
type DiscreteSpace struct {
	N   int
	rng *rand.Rand
}

// NewDiscrete returns a new DiscreteSpace with n elements
func NewDiscrete(n int) (*DiscreteSpace, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newDiscrete: space must have at least one "+
			"element but got %v", n)
	}
	return &DiscreteSpace{N: n, rng: rand.New(rand.NewSource(0))}, nil
}

// Len implements the Space interface
func (d *DiscreteSpace) Len() int {
	return 1
}

// Cardinality implements the Space interface
func (d *DiscreteSpace) Cardinality() Cardinality {
	return Discrete
}

// Contains implements the Space interface
func (d *DiscreteSpace) Contains(x []float64) bool {
	if len(x) != 1 {
		return false
	}
	v := x[0]
	return v == math.Trunc(v) && v >= 0 && v < float64(d.N)
}

// Sample implements the Space interface
func (d *DiscreteSpace) Sample() []float64 {
	return []float64{float64(d.rng.Intn(d.N))}
}

// Seed implements the Space interface
func (d *DiscreteSpace) Seed(seed uint64) {
	d.rng = rand.New(rand.NewSource(seed))
}

func (d *DiscreteSpace) String() string {
	return fmt.Sprintf("Discrete(%v)", d.N)
}

// DictSpace is a composite space of named sub-spaces. Flattened values
// concatenate the sub-spaces in lexical key order.
type DictSpace struct {
	spaces map[string]Space
	keys   []string
}

// NewDict returns a new DictSpace composed of the given named sub-spaces
func NewDict(spaces map[string]Space) (*DictSpace, error) {
	if len(spaces) == 0 {
		return nil, fmt.Errorf("newDict: dict space must have at least " +
			"one sub-space")
	}

	keys := make([]string, 0, len(spaces))
	copied := make(map[string]Space, len(spaces))
	for key, space := range spaces {
		if space == nil {
			return nil, fmt.Errorf("newDict: sub-space %q is nil", key)
		}
		keys = append(keys, key)
		copied[key] = space
	}
	sort.Strings(keys)

	return &DictSpace{spaces: copied, keys: keys}, nil
}

// Keys returns the names of the sub-spaces in flattening order
func (d *DictSpace) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Get returns the sub-space with the given name
func (d *DictSpace) Get(key string) (Space, bool) {
	space, ok := d.spaces[key]
	return space, ok
}

// Len implements the Space interface
func (d *DictSpace) Len() int {
	size := 0
	for _, key := range d.keys {
		size += d.spaces[key].Len()
	}
	return size
}

// Cardinality implements the Space interface. A DictSpace is Discrete only
// if all its sub-spaces are.
func (d *DictSpace) Cardinality() Cardinality {
	for _, key := range d.keys {
		if d.spaces[key].Cardinality() != Discrete {
			return Continuous
		}
	}
	return Discrete
}

// Contains implements the Space interface
func (d *DictSpace) Contains(x []float64) bool {
	if len(x) != d.Len() {
		return false
	}
	start := 0
	for _, key := range d.keys {
		space := d.spaces[key]
		if !space.Contains(x[start : start+space.Len()]) {
			return false
		}
		start += space.Len()
	}
	return true
}

// Sample implements the Space interface
func (d *DictSpace) Sample() []float64 {
	sample := make([]float64, 0, d.Len())
	for _, key := range d.keys {
		sample = append(sample, d.spaces[key].Sample()...)
	}
	return sample
}

// Seed implements the Space interface. Each sub-space is seeded with
// a distinct seed derived from seed.
func (d *DictSpace) Seed(seed uint64) {
	for i, key := range d.keys {
		d.spaces[key].Seed(seed + uint64(i))
	}
}

func (d *DictSpace) String() string {
	parts := make([]string, len(d.keys))
	for i, key := range d.keys {
		parts[i] = fmt.Sprintf("%v: %v", key, d.spaces[key])
	}
	return fmt.Sprintf("Dict(%v)", strings.Join(parts, ", "))
}

// TupleSpace is a composite space of ordered sub-spaces
type TupleSpace struct {
	Spaces []Space
}

// NewTuple returns a new TupleSpace composed of the given sub-spaces
func NewTuple(spaces ...Space) *TupleSpace {
	return &TupleSpace{Spaces: spaces}
}

// Len implements the Space interface
func (t *TupleSpace) Len() int {
	size := 0
	for _, space := range t.Spaces {
		size += space.Len()
	}
	return size
}

// Cardinality implements the Space interface. A TupleSpace is Discrete only
// if all its sub-spaces are.
func (t *TupleSpace) Cardinality() Cardinality {
	for _, space := range t.Spaces {
		if space.Cardinality() != Discrete {
			return Continuous
		}
	}
	return Discrete
}

// Contains implements the Space interface
func (t *TupleSpace) Contains(x []float64) bool {
	if len(x) != t.Len() {
		return false
	}
	start := 0
	for _, space := range t.Spaces {
		if !space.Contains(x[start : start+space.Len()]) {
			return false
		}
		start += space.Len()
	}
	return true
}

// Sample implements the Space interface
func (t *TupleSpace) Sample() []float64 {
	sample := make([]float64, 0, t.Len())
	for _, space := range t.Spaces {
		sample = append(sample, space.Sample()...)
	}
	return sample
}

// Seed implements the Space interface
func (t *TupleSpace) Seed(seed uint64) {
	for i, space := range t.Spaces {
		space.Seed(seed + uint64(i))
	}
}

func (t *TupleSpace) String() string {
	parts := make([]string, len(t.Spaces))
	for i, space := range t.Spaces {
		parts[i] = space.String()
	}
	return fmt.Sprintf("Tuple(%v)", strings.Join(parts, ", "))
}
