package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "launcher")

// ErrInvalidTrainer reports that the selected trainer is not one of
// Trainers. It is not recoverable.
var ErrInvalidTrainer = errors.New("invalid trainer")

// Select returns the entry point for the given options and its name.
//
//	rllib	always the rllib training entry point
//	sb3	evaluation if a model to load is given, training otherwise
//	sf	enjoy if evaluation is requested, training otherwise
//
// A nil capability in b is replaced by a placeholder.
func Select(args Args, b Backends) (EntryPoint, string, error) {
	b = b.withPlaceholders()

	switch args.Trainer {
	case RLlib:
		return b.RLlib.Train, "rllib_training", nil

	case SB3:
		if args.LoadSB3 != "" {
			return b.SB3.Evaluate, "stable_baselines_evaluate", nil
		}
		return b.SB3.Train, "stable_baselines_training", nil

	case SF:
		if args.Eval {
			return b.SF.Enjoy, "sample_factory_enjoy", nil
		}
		return b.SF.Train, "sample_factory_training", nil
	}

	return nil, "", fmt.Errorf("select: %w %q, expected one of %v",
		ErrInvalidTrainer, args.Trainer, Trainers)
}

// Dispatch validates the options, selects the entry point with Select
// and runs it with the extras forwarded unmodified
func Dispatch(ctx context.Context, args Args, extras []string,
	b Backends) error {
	if err := args.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	entry, name, err := Select(args, b)
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	log.WithFields(logrus.Fields{
		"trainer":     args.Trainer,
		"entry_point": name,
		"extras":      extras,
	}).Info("dispatching")

	return entry(ctx, args, extras)
}

var errNotRegistered = errors.New("backend not registered with the launcher")

// withPlaceholders returns a copy of b where every nil capability is
// replaced by a placeholder
func (b Backends) withPlaceholders() Backends {
	if b.RLlib == nil {
		b.RLlib = Unavailable(RLlib, string(RLlib), errNotRegistered)
	}
	if b.SB3 == nil {
		b.SB3 = Unavailable(SB3, string(SB3), errNotRegistered)
	}
	if b.SF == nil {
		b.SF = Unavailable(SF, string(SF), errNotRegistered)
	}
	return b
}
