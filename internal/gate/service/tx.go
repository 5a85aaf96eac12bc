package service

import (
	"context"

	credModels "parkgate/internal/credential/models"
	"parkgate/internal/gate/models"
)

// TxGateStore is the slice of the gate store available inside the
// provisioning unit of work.
type TxGateStore interface {
	Create(ctx context.Context, gate *models.Gate) error
}

// TxCredentialStore is the slice of the credential store available inside the
// provisioning unit of work.
type TxCredentialStore interface {
	Create(ctx context.Context, cred *credModels.OperatingCredential) error
}

// TxStores bundles the stores scoped to one provisioning unit of work.
type TxStores struct {
	Gates       TxGateStore
	Credentials TxCredentialStore
}

// ProvisioningTx provides the transactional boundary for creating a gate
// together with its operating credential. Implementations may wrap a database
// transaction or, in-memory, a coarse lock with compensation. If fn returns
// an error nothing it did survives.
type ProvisioningTx interface {
	RunInTx(ctx context.Context, fn func(stores TxStores) error) error
}
