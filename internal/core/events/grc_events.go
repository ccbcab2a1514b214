package events

const (
	EventTypeEntityChanged = "entity.changed"
	EventTypeUserSignedIn  = "user.signed_in"
)

const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionSignedIn = "signed_in"
)

// EntityChangedEvent carries one successful mutation. Before is nil for
// creates and After is nil for deletes.
type EntityChangedEvent struct {
	BaseEvent
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	UserID     string      `json:"user_id"`
	Before     interface{} `json:"before,omitempty"`
	After      interface{} `json:"after,omitempty"`
}

func NewEntityChangedEvent(action, entityType, entityID, userID string, before, after interface{}) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseEvent: newBase(EventTypeEntityChanged, map[string]interface{}{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
			"user_id":     userID,
		}),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Before:     before,
		After:      after,
	}
}

type UserSignedInEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Demo   bool   `json:"demo"`
}

func NewUserSignedInEvent(userID, email string, demo bool) *UserSignedInEvent {
	return &UserSignedInEvent{
		BaseEvent: newBase(EventTypeUserSignedIn, map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"demo":    demo,
		}),
		UserID: userID,
		Email:  email,
		Demo:   demo,
	}
}
