// Package config loads the server's HCL configuration.
//
// Configuration comes from two places: an optional main config file, and
// plugin manifest files discovered under the configured search paths. Both use
// the same HCL schema; files found later in the search order override values
// from earlier ones, and per-plugin option blocks are merged attribute by
// attribute.
package config
