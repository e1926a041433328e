package models

// Action is one of the operations the access resolver decides on.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionShare  Action = "share"
)
