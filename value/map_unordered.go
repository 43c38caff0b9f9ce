//go:build !preserveorder

package value

// preserveOrder selects the map representation for the whole build.
// The default build keeps no key ordering; build with the
// "preserveorder" tag for insertion-ordered maps.
const preserveOrder = false
