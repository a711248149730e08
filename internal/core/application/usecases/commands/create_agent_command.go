package commands

import (
	"errors"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
	"pharmaflow/internal/pkg/guard"
)

// ErrCreateAgentCommandIsNotConstructed is returned when a CreateAgentCommand
// was not created via its constructor.
var ErrCreateAgentCommandIsNotConstructed = errors.New(
	"CreateAgentCommand must be created via NewCreateAgentCommand constructor",
)

// CreateAgentCommand represents a request to register a delivery agent.
type CreateAgentCommand struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID
	name    string
	phone   string

	guard guard.ConstructorGuard
}

// NewCreateAgentCommand creates a command to register a new delivery agent.
func NewCreateAgentCommand(
	agentID kernel.UUID, name string, phone string,
) (CreateAgentCommand, error) {
	agentCommand := CreateAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agentCommand.setAgentID(agentID),
		agentCommand.setName(name),
		agentCommand.setPhone(phone),
	); err != nil {
		return CreateAgentCommand{}, err
	}

	return agentCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAgentCommand) Validate() error {
	return c.guard.Validate(ErrCreateAgentCommandIsNotConstructed)
}

// AgentID returns the identifier the new agent will carry.
func (c CreateAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Name returns the agent's display name.
func (c CreateAgentCommand) Name() string {
	return c.name
}

// Phone returns the agent's contact phone.
func (c CreateAgentCommand) Phone() string {
	return c.phone
}

func (c *CreateAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *CreateAgentCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *CreateAgentCommand) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}

	c.phone = phone
	return nil
}
