package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const nestingSeparator = "__"

// Provide loads configuration for the named service. Values are layered in
// this order: the given defaults, the TOML file named by <NAME>_CONFIG_FILE
// (if set) and finally <NAME>_ prefixed environment variables, where a double
// underscore descends into a nested section (PMS_POSTGRES__HOST).
func Provide[T any](name string, def T) (T, error) {
	var cnf T

	prefix := strings.ToUpper(name) + "_"
	k := koanf.New(".")

	if err := k.Load(structs.Provider(def, "koanf"), nil); err != nil {
		return cnf, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv(prefix + "CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return cnf, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, prefix))
		return strings.ReplaceAll(s, nestingSeparator, ".")
	}), nil); err != nil {
		return cnf, fmt.Errorf("load environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cnf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return cnf, fmt.Errorf("unmarshal config: %w", err)
	}

	return cnf, nil
}
