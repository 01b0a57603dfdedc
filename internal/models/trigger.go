package models

// Trigger is an external event that starts a refresh or re-registration.
type Trigger string

const (
	TriggerLaunch     Trigger = "launch"
	TriggerForeground Trigger = "foreground"
	TriggerBackground Trigger = "background"
	TriggerPermission Trigger = "permission"
	TriggerPush       Trigger = "push"
	TriggerPoll       Trigger = "poll"
	TriggerManual     Trigger = "manual"
)

// ParseLifecycleTrigger accepts the triggers a UI shell may deliver.
func ParseLifecycleTrigger(raw string) (Trigger, bool) {
	switch t := Trigger(raw); t {
	case TriggerLaunch, TriggerForeground, TriggerBackground, TriggerPermission:
		return t, true
	default:
		return "", false
	}
}

// ReassertsRegistration reports whether the trigger should re-send the
// device registration.
func (t Trigger) ReassertsRegistration() bool {
	return t == TriggerLaunch || t == TriggerForeground || t == TriggerPermission
}
