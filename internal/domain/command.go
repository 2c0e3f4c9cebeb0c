package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Command is a single admin mutation against a backend resource. All CRUD
// traffic goes through one dispatch point with this shape.
type Command struct {
	Action   CommandAction
	Resource Resource
	ID       string
	Payload  json.RawMessage
}

func (c Command) Validate() error {
	if c.Resource == "" {
		return errors.New("command resource is required")
	}
	if _, err := ParseResource(string(c.Resource)); err != nil {
		return err
	}
	switch c.Action {
	case ActionCreate:
		if len(c.Payload) == 0 {
			return errors.New("create requires a payload")
		}
	case ActionUpdate:
		if c.ID == "" {
			return errors.New("update requires an id")
		}
		if len(c.Payload) == 0 {
			return errors.New("update requires a payload")
		}
	case ActionDelete:
		if c.ID == "" {
			return errors.New("delete requires an id")
		}
	default:
		return fmt.Errorf("unknown command action %q", c.Action)
	}
	if c.ID != "" {
		if err := ValidateID(c.ID); err != nil {
			return err
		}
	}
	if len(c.Payload) > 0 && !json.Valid(c.Payload) {
		return errors.New("payload is not valid JSON")
	}
	return nil
}

// Path returns the endpoint the command targets.
func (c Command) Path() string {
	if c.ID == "" {
		return c.Resource.Path()
	}
	return c.Resource.ItemPath(c.ID)
}
