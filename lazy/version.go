package lazy

// Version information for the lazycell library.
const (
	// Version is the current library version string.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the library.
type Info struct {
	// Version is the library version string.
	Version string

	// Strategy names the synchronization protocol used for the
	// pending-to-resolved transition.
	Strategy string
}

// GetInfo returns information about the library.
//
// Example:
//
//	info := lazy.GetInfo()
//	fmt.Printf("lazycell %s (%s)\n", info.Version, info.Strategy)
func GetInfo() Info {
	return Info{
		Version:  Version,
		Strategy: "double-checked locking, atomic publish",
	}
}
