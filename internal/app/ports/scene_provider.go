package ports

import "homestead/internal/domain/farming"

type SceneProvider interface {
	Binding(key farming.SceneKey) (farming.SceneBinding, bool)
}
