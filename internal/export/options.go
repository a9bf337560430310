package export

import (
	"github.com/ezexport/cli/internal/discovery"
)

// DefaultQuickExportName is the file name of a selection export.
const DefaultQuickExportName = "quick_export"

// BundleSuffix is appended to the combined file of a child-bundle export.
const BundleSuffix = "_bundle"

// CollisionSuffix is appended to the file of a collision-only export.
const CollisionSuffix = "_collision"

// Options are the recognised options of every export entry point.
type Options struct {
	// FixScaleOnExport converts scene units to engine units on write.
	FixScaleOnExport bool

	// AutoUVUnwrap unwraps every merged node. Candidates carrying the
	// auto-UV marker are unwrapped regardless.
	AutoUVUnwrap bool

	// CleanUpExport deletes the staging container after the batch.
	CleanUpExport bool

	// BundleChildren exports each child container of a candidate on its own
	// and all of them together before the candidate itself.
	BundleChildren bool

	// Categories restricts which candidates run. Empty means all.
	Categories []discovery.Category

	// FileName names the selection export file, without extension.
	FileName string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		FixScaleOnExport: true,
		CleanUpExport:    true,
		FileName:         DefaultQuickExportName,
	}
}

// Allows reports whether candidates of category c run. collisionOnly alone
// does not restrict categories.
func (o Options) Allows(c discovery.Category) bool {
	restricted := false
	for _, want := range o.Categories {
		if want == discovery.CategoryCollisionOnly {
			continue
		}
		restricted = true
		if want == c {
			return true
		}
	}
	return !restricted
}

// CollisionOnly reports whether only collision proxies are written.
func (o Options) CollisionOnly() bool {
	for _, c := range o.Categories {
		if c == discovery.CategoryCollisionOnly {
			return true
		}
	}
	return false
}
