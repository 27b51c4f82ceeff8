// Package config holds the configuration knobs recognized by the Raft
// simulator and their validation rules.
//
// Loading a config file or parsing CLI flags is the job of the excluded
// outer layers (cmd/raftsim does the flag parsing); this package only
// defines the shape, defaults, and validation of the resulting struct so
// those layers and the simulator agree on what a "valid run" looks like.
package config
