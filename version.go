// Package abnmcp provides the version information for abn-mcp.
package abnmcp

// Version is the current version of abn-mcp.
const Version = "0.0.3"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
