package adapter

import "context"

// OperatorDirectory answers authorization questions about operators.
// The directory itself (accounts, roles, sessions) is an external
// collaborator; the confirmation workflow only asks this one question,
// and must ask it before touching the state machine.
type OperatorDirectory interface {
	CanConfirm(ctx context.Context, operatorID string) (bool, error)
}
