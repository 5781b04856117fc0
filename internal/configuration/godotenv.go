package configuration

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// GodotenvProvider parses environment files with godotenv.
type GodotenvProvider struct{}

// Read parses one environment file into a map (map[key]value). References
// such as ${KEY} are expanded against the keys above them in the same file.
func (*GodotenvProvider) Read(filename string) (map[string]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("(config-env) %w", err)
	}
	defer f.Close()

	data, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("(config-env) failed to parse %s: %w", filename, err)
	}

	return data, nil
}
