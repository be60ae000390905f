package checkpointer

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "checkpointer")

// NStep implements checkpointing every N steps
type NStep struct {
	interval int
	object   Saver
	last     int

	// filename returns the path to save the object at.
	//
	// To save each checkpoint in a separate enumerated file (e.g.
	// model_1.zip, model_2.zip, ...) use FilenameEnumerator. If the
	// name does not matter, use FileTimer:
	//
	//	n := NewNStep(10, model, FileTimer("logs/models/PPO", ".zip"))
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints every n steps
func NewNStep(n int, object Saver, filename func() string) (*NStep, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: checkpoint interval must be "+
			"positive but got %v", n)
	}
	return &NStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Interval returns the number of steps between checkpoints
func (n *NStep) Interval() int {
	return n.interval
}

// Checkpoint saves the tracked object if at least one interval boundary
// was crossed since the last checkpoint
func (n *NStep) Checkpoint(step int) error {
	if step/n.interval <= n.last/n.interval {
		return nil
	}
	n.last = step

	path := n.filename()
	log.WithFields(logrus.Fields{"step": step, "path": path}).Info(
		"saving checkpoint")
	if err := n.object.Save(path); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}
