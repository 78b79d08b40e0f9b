// Package buildtime holds values stamped at build time.
//
// Set them with -ldflags, for example:
//
//	go build -ldflags "-X github.com/kevintatou/sparktest/pkg/buildtime.version=v1.2.3 -X github.com/kevintatou/sparktest/pkg/buildtime.revision=$(git rev-parse HEAD)"
package buildtime

var (
	version  = "dev"
	revision = "unknown"
)

// VERSION is the version of this build.
func VERSION() string {
	return version
}

func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
