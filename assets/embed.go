package assets

import (
	_ "embed"
)

//go:embed difficulties.yaml
var difficulties []byte

// Difficulties returns the built-in difficulty presets as YAML.
func Difficulties() []byte {
	return append([]byte(nil), difficulties...)
}
