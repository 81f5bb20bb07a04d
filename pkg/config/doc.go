// Package config loads treelint configuration.
//
// Two kinds of configuration live here:
//
//   - The structure configuration: the YAML document defining structure
//     rules, templates and the directory map. It is schema-validated and
//     compiled into a rules.Config.
//   - Tool settings: koanf-layered defaults for scan flags, merged from
//     embedded defaults and an optional .treelint.toml in the repository
//     root. Explicit CLI flags override both layers.
package config
