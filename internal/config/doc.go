// Package config provides the configuration of an emailscout run: input and
// output files, search provider policy, page fetching, and pacing.
//
// Values come from three layers. NewConfig supplies defaults, a YAML
// .emailscout file overlays them (File.Apply), and command line flags
// override both.
package config
