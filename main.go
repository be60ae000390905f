// Command gdrl trains agents in Godot simulations.
//
// Interactive training: with the Godot editor open, run gdrl and press
// PLAY in the editor. Training with an exported binary:
//
//	gdrl --env_path path/to/exported/binary --config_file path/to/config.yaml
//
// Options may also be given as GDRL_* environment variables, which are
// read from a .env file if one is present.
package main

import (
	"github.com/joho/godotenv"

	"github.com/samuelfneumann/godotrl/cmd"
)

func main() {
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cmd.Execute()
}
