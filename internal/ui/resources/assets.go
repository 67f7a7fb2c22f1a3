// Package resources serves the dashboard's static assets.
package resources

// StaticDirectoryPath is the static asset directory relative to the
// repository root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
