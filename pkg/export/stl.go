// Package export writes tessellated crates to disk.
package export

import (
	"errors"
	"fmt"

	"github.com/chazu/cratekit/pkg/kernel"
	log "github.com/sirupsen/logrus"
)

// ErrNothingToExport is returned when there are no triangles to write.
var ErrNothingToExport = errors.New("export: nothing to export")

// SaveSTL writes meshes to path as binary STL using the kernel's writer.
// Meshes without triangles are skipped.
func SaveSTL(k kernel.Kernel, path string, meshes []*kernel.Mesh) error {
	parts := make([]*kernel.Mesh, 0, len(meshes))
	triangles := 0
	for _, m := range meshes {
		if m == nil || m.TriangleCount() == 0 {
			continue
		}
		parts = append(parts, m)
		triangles += m.TriangleCount()
	}
	if len(parts) == 0 {
		return ErrNothingToExport
	}
	if err := k.SaveSTL(path, parts...); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.WithFields(log.Fields{
		"path":      path,
		"meshes":    len(parts),
		"triangles": triangles,
	}).Info("wrote STL")
	return nil
}
