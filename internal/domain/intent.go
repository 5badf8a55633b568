package domain

// IntentAction is the action chosen by the intent classifier
type IntentAction string

const (
	ActionChat          IntentAction = "chat"
	ActionLogFood       IntentAction = "log_food"
	ActionDeleteLog     IntentAction = "delete_log"
	ActionUpdateProfile IntentAction = "update_profile"
)

// DefaultQuantityG is used when a logged item carries no usable quantity
const DefaultQuantityG = 100.0

// IntentItem is one food mentioned in a message
type IntentItem struct {
	Name      string  `json:"name"`
	QuantityG float64 `json:"quantity_g"`
}

// Quantity returns the item quantity, defaulting to DefaultQuantityG
func (i IntentItem) Quantity() float64 {
	if i.QuantityG <= 0 {
		return DefaultQuantityG
	}
	return i.QuantityG
}

// Intent is the structured result of classifying a free-text message
type Intent struct {
	Action  IntentAction  `json:"action"`
	Items   []IntentItem  `json:"items,omitempty"`
	Profile *ProfilePatch `json:"profile,omitempty"`
}

// Exchange is one assistant round trip kept for auditing
type Exchange struct {
	UserID  uint
	Message string
	Action  IntentAction
	Intent  *Intent
	Reply   string
	Failed  bool
}
