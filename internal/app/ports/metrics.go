package ports

type GameMetrics interface {
	RecordAction(action string, ok bool)
	RecordInventoryChange()
}
