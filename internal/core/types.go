// Package core wires the mini-app modules, the desktop shell and the login
// gate behind a single command dispatcher.
package core

import (
	"encoding/json"
	"errors"
	"fmt"

	"warburtonsos/internal/records"
	"warburtonsos/internal/shell"
	"warburtonsos/pkg/domain"
)

// Action names a user interaction.
type Action string

// Record actions.
const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReset  Action = "reset"
)

// Form actions.
const (
	ActionFormBeginAdd  Action = "form-begin-add"
	ActionFormBeginEdit Action = "form-begin-edit"
	ActionFormEdit      Action = "form-edit"
	ActionFormConfirm   Action = "form-confirm"
	ActionFormCancel    Action = "form-cancel"
)

// Window actions.
const (
	ActionOpen     Action = "open"
	ActionClose    Action = "close"
	ActionMinimize Action = "minimize"
	ActionToggle   Action = "toggle"
	ActionLaunch   Action = "launch"
)

// Command is one dispatched user action. Payload carries record JSON for
// add, update and form-edit. Confirmed answers the delete prompt.
type Command struct {
	App       domain.AppID    `json:"app"`
	Action    Action          `json:"action"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Confirmed bool            `json:"confirmed,omitempty"`
}

// Operation is the metrics and tracing name for the command.
func (c Command) Operation() string {
	return fmt.Sprintf("%s_%s", c.Action, c.App)
}

// FormSnapshot is the externally visible state of an app's edit form.
type FormSnapshot struct {
	State  records.FormState `json:"state"`
	Target string            `json:"target,omitempty"`
	Buffer any               `json:"buffer,omitempty"`
}

// Result reports what a dispatched command did. Changed is false for
// declined deletes and updates of unknown ids.
type Result struct {
	App     domain.AppID  `json:"app"`
	Action  Action        `json:"action"`
	Changed bool          `json:"changed"`
	Record  any           `json:"record,omitempty"`
	Form    *FormSnapshot `json:"form,omitempty"`
	Window  *shell.App    `json:"window,omitempty"`
}

// ErrUnknownAction is returned for actions the dispatcher does not handle.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidPayload wraps JSON decoding failures of command payloads.
var ErrInvalidPayload = errors.New("invalid payload")

// ErrNotFound is returned when a command names a record that does not exist.
type ErrNotFound struct {
	Entity domain.AppID
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
