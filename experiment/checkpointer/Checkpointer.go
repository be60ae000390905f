// Package checkpointer saves trained models on a schedule of
// training steps
package checkpointer

// Saver is an object that can be saved to a path, such as a trained model
type Saver interface {
	Save(path string) error
}

// Checkpointer checkpoints/saves objects based on the number of
// training steps taken so far
type Checkpointer interface {
	Checkpoint(step int) error
}
