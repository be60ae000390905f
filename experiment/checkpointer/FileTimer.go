package checkpointer

import (
	"fmt"
	"time"
)

// timestampLayout sorts lexically in time order
const timestampLayout = "20060102T150405.000000000"

// FileTimer returns a function which will suffix a filename with the
// UTC time of the call, e.g. PPO_20240102T150405.000000000.zip
func FileTimer(filename, extension string) func() string {
	return timer(time.Now, filename, extension)
}

func timer(now func() time.Time, filename, extension string) func() string {
	return func() string {
		stamp := now().UTC().Format(timestampLayout)
		return fmt.Sprintf("%v_%v%v", filename, stamp, extension)
	}
}
