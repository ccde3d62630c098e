package diagram

var triggerLabels = map[string]string{
	"ON_CLICK":      "On tap",
	"ON_HOVER":      "On hover",
	"ON_PRESS":      "While pressing",
	"ON_DRAG":       "On drag",
	"AFTER_TIMEOUT": "After delay",
	"MOUSE_UP":      "On release",
	"MOUSE_DOWN":    "On mouse down",
	"MOUSE_ENTER":   "Mouse enter",
	"MOUSE_LEAVE":   "Mouse leave",
	"ON_KEY_DOWN":   "Key press",
}

// TriggerLabel returns the human-readable badge text for a trigger kind.
// Unknown kinds are returned unchanged.
func TriggerLabel(trigger string) string {
	if l, ok := triggerLabels[trigger]; ok {
		return l
	}
	return trigger
}
