//go:build preserveorder

package value

// preserveOrder selects the map representation for the whole build.
// This build keeps insertion order on every Map.
const preserveOrder = true
