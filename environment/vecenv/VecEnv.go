// Package vecenv adapts batched simulations to the vectorized
// environment interface expected by RL training libraries.
//
// A vectorized environment presents N parallel simulation instances
// through batched Reset and Step calls which return observations in
// dict-of-arrays form (see Batch) and rewards and terminal signals as
// arrays indexed by instance.
package vecenv

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/godotrl/environment"
)

// VecEnv is the vectorized environment contract of a training library.
//
// Implementations are not required to support the auxiliary methods
// Seed, GetAttr, SetAttr, EnvMethod, StepAsync, StepWait and
// EnvIsWrapped. An implementation which does not support one of them
// must return an error for which IsNotSupported reports true.
type VecEnv interface {
	// Reset resets all instances and returns their first observations
	Reset() (Batch, error)

	// Step takes one step in all instances. Row i of actions is the
	// action for instance i. The rewards and dones have length
	// NumEnvs().
	Step(actions mat.Matrix) (obs Batch, rewards *mat.VecDense,
		dones []bool, infos []environment.Info, err error)

	// Close releases the environment's resources
	Close() error

	ObservationSpace() environment.Space
	ActionSpace() environment.Space
	NumEnvs() int

	Seed(seed uint64) error
	GetAttr(name string, indices ...int) ([]interface{}, error)
	SetAttr(name string, value interface{}, indices ...int) error
	EnvMethod(name string, args []interface{}, indices ...int) (
		[]interface{}, error)
	StepAsync(actions mat.Matrix) error
	StepWait() (obs Batch, rewards *mat.VecDense, dones []bool,
		infos []environment.Info, err error)
	EnvIsWrapped(wrapper string, indices ...int) ([]bool, error)
}
