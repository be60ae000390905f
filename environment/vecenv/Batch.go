package vecenv

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
)

// Batch is a batch of observations in dict-of-arrays form. Each
// observation component name maps to a matrix whose row i holds the
// flattened component value of instance i.
type Batch map[string]*mat.Dense

// Keys returns the component names of the Batch in sorted order
func (b Batch) Keys() []string {
	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of instances in the Batch
func (b Batch) Len() int {
	for _, m := range b {
		r, _ := m.Dims()
		return r
	}
	return 0
}

// ListToDict converts a batch of observations in list-of-dicts form,
// one Observation per instance, to dict-of-arrays form. Instance i of
// obs becomes row i of every matrix in the returned Batch.
//
// All observations must have the same component names, and each
// component must have the same number of elements in every
// observation.
func ListToDict(obs []environment.Observation) (Batch, error) {
	if len(obs) == 0 {
		return nil, &Error{Op: "listToDict", Err: fmt.Errorf("%w: empty "+
			"observation list", errBatch)}
	}
	if len(obs[0]) == 0 {
		return nil, &Error{Op: "listToDict", Err: fmt.Errorf("%w: "+
			"observation 0 has no components", errBatch)}
	}

	batch := make(Batch, len(obs[0]))
	for key, value := range obs[0] {
		if len(value) == 0 {
			return nil, &Error{Op: "listToDict", Err: fmt.Errorf("%w: "+
				"component %q is empty", errBatch, key)}
		}
		batch[key] = mat.NewDense(len(obs), len(value), nil)
	}

	for i, o := range obs {
		if len(o) != len(batch) {
			return nil, &Error{Op: "listToDict", Err: fmt.Errorf("%w: "+
				"observation %v has %v components but observation 0 has %v",
				errBatch, i, len(o), len(batch))}
		}
		for key, value := range o {
			m, ok := batch[key]
			if !ok {
				return nil, &Error{Op: "listToDict", Err: fmt.Errorf("%w: "+
					"observation %v has unknown component %q", errBatch, i,
					key)}
			}
			if _, c := m.Dims(); c != len(value) {
				return nil, &Error{Op: "listToDict", Err: fmt.Errorf("%w: "+
					"component %q of observation %v has %v elements, "+
					"expected %v", errBatch, key, i, len(value), c)}
			}
			m.SetRow(i, value)
		}
	}

	return batch, nil
}

// DictToList converts a Batch back to list-of-dicts form. Row i of
// every matrix becomes element i of the returned list.
func DictToList(b Batch) ([]environment.Observation, error) {
	if len(b) == 0 {
		return nil, &Error{Op: "dictToList", Err: fmt.Errorf("%w: empty "+
			"batch", errBatch)}
	}

	n := b.Len()
	for key, m := range b {
		if r, _ := m.Dims(); r != n {
			return nil, &Error{Op: "dictToList", Err: fmt.Errorf("%w: "+
				"component %q has %v rows, expected %v", errBatch, key, r, n)}
		}
	}

	obs := make([]environment.Observation, n)
	for i := range obs {
		obs[i] = make(environment.Observation, len(b))
		for key, m := range b {
			obs[i][key] = mat.Row(nil, i, m)
		}
	}
	return obs, nil
}

// rows splits a matrix of per-instance actions into one vector per
// row, in row order
func rows(actions mat.Matrix) []*mat.VecDense {
	r, c := actions.Dims()
	vecs := make([]*mat.VecDense, r)
	for i := range vecs {
		vecs[i] = mat.NewVecDense(c, mat.Row(nil, i, actions))
	}
	return vecs
}
