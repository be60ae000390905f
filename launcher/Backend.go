package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
)

// EntryPoint is a training or evaluation function of a backend.
// Extras are the launcher arguments which were not recognized,
// forwarded verbatim and in order.
type EntryPoint func(ctx context.Context, args Args, extras []string) error

// RLlibBackend is the capability offered by the rllib backend
type RLlibBackend interface {
	Train(ctx context.Context, args Args, extras []string) error
}

// SB3Backend is the capability offered by the stable-baselines backend
type SB3Backend interface {
	Train(ctx context.Context, args Args, extras []string) error
	Evaluate(ctx context.Context, args Args, extras []string) error
}

// SFBackend is the capability offered by the sample-factory backend
type SFBackend interface {
	Train(ctx context.Context, args Args, extras []string) error
	Enjoy(ctx context.Context, args Args, extras []string) error
}

// Backends holds one capability per trainer. Each capability is either
// a real backend or a placeholder returned by Unavailable.
type Backends struct {
	RLlib RLlibBackend
	SB3   SB3Backend
	SF    SFBackend
}

// Placeholder stands in for a backend whose library is not installed.
// It satisfies every backend interface. Invoking any entry point
// prints a diagnostic naming the missing dependency and its install
// remedy and does nothing else.
type Placeholder struct {
	Trainer Trainer
	Extra   string // Name of the package extra providing the library
	Cause   error
	Out     io.Writer
}

// Unavailable returns a Placeholder for trainer, reporting cause and
// the install remedy for the package extra to stdout
func Unavailable(trainer Trainer, extra string, cause error) *Placeholder {
	return &Placeholder{
		Trainer: trainer,
		Extra:   extra,
		Cause:   cause,
		Out:     os.Stdout,
	}
}

// Train implements the backend interfaces
func (p *Placeholder) Train(context.Context, Args, []string) error {
	p.report()
	return nil
}

// Evaluate implements the SB3Backend interface
func (p *Placeholder) Evaluate(context.Context, Args, []string) error {
	p.report()
	return nil
}

// Enjoy implements the SFBackend interface
func (p *Placeholder) Enjoy(context.Context, Args, []string) error {
	p.report()
	return nil
}

func (p *Placeholder) report() {
	log.WithField("trainer", p.Trainer).WithError(p.Cause).Warn(
		"backend unavailable")

	fmt.Fprintf(p.Out, "Error: %v\n", p.Cause)
	fmt.Fprintf(p.Out, "Import error when trying to use %v. If you have "+
		"not installed the package, try: pip install godot-rl[%v]\n",
		p.Trainer, p.Extra)
	fmt.Fprintln(p.Out, "Otherwise try fixing the error above.")
}
