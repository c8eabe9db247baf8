package definitions

import "github.com/spance/droidpilot-go/utils"

// ActionType tags one model-produced action. Anything outside the known set
// falls through to the dispatcher's unsupported path, which logs and no-ops
// so the caller's loop can continue.
type ActionType string

const (
	ActionClick       ActionType = "click"
	ActionDoubleClick ActionType = "double_click"
	ActionLongPress   ActionType = "long_press"
	ActionTypeText    ActionType = "type"
	ActionSwipe       ActionType = "swipe"
	ActionDrag        ActionType = "drag"
	ActionPressBack   ActionType = "press_back"
	ActionPressHome   ActionType = "press_home"
	ActionPressEnter  ActionType = "press_enter"
	ActionWait        ActionType = "wait"
	ActionOpenApp     ActionType = "open_app"
)

// ActionRequest carries one already-decided action. ActionInputs keys vary by
// type: start_box/end_box for coordinate actions, content for type,
// app for open_app, duration for wait. ScreenWidth/ScreenHeight must be the
// resolution of the screenshot the boxes were produced against.
type ActionRequest struct {
	ActionType   ActionType     `json:"action_type"`
	ActionInputs map[string]any `json:"action_inputs"`
	ScreenWidth  int            `json:"screen_width"`
	ScreenHeight int            `json:"screen_height"`
}

// Input returns the named action input as a string, "" when absent or not a
// string.
func (r *ActionRequest) Input(key string) string {
	if r.ActionInputs == nil {
		return ""
	}
	return utils.AnyToString(r.ActionInputs[key])
}
