package models

// EntityType names one of the parent record kinds a document can be attached to.
type EntityType string

const (
	EntityProject           EntityType = "project"
	EntityActivity          EntityType = "activity"
	EntityTask              EntityType = "task"
	EntitySeminar           EntityType = "seminar"
	EntityTraining          EntityType = "training"
	EntityInternship        EntityType = "internship"
	EntitySupervision       EntityType = "supervision"
	EntityKnowledgeTransfer EntityType = "knowledgeTransfer"
	EntityEvent             EntityType = "event"
)

var entityTypes = map[EntityType]bool{
	EntityProject:           true,
	EntityActivity:          true,
	EntityTask:              true,
	EntitySeminar:           true,
	EntityTraining:          true,
	EntityInternship:        true,
	EntitySupervision:       true,
	EntityKnowledgeTransfer: true,
	EntityEvent:             true,
}

func (t EntityType) IsValid() bool {
	return entityTypes[t]
}

// EntityTypes returns every supported type in a stable order.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityProject,
		EntityActivity,
		EntityTask,
		EntitySeminar,
		EntityTraining,
		EntityInternship,
		EntitySupervision,
		EntityKnowledgeTransfer,
		EntityEvent,
	}
}

// EntityRef is the single tagged link between a document and its parent record.
// A document carries at most one of these.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}

func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.IsValid() {
		return "", ErrInvalidParams
	}
	return t, nil
}
