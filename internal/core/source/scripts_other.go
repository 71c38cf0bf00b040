//go:build !darwin && !linux

package source

// No default sampling commands on this platform; scripts must be supplied
// through configuration.
const defaultActivityScript = ""
const defaultIdleScript = ""
