// Package resources serves the UI's static assets: embedded in release
// builds, read from disk with the dev build tag.
package resources

import "path"

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// StaticPath returns the URL path for a static asset.
func StaticPath(name string) string {
	return path.Join("/static", name)
}
