package models

import (
	"fmt"
	"time"
)

// RoleGate marks a credential minted for an unattended gate client.
const RoleGate = "gate"

// OperatingCredential is the login identity provisioned for a gate in the
// same atomic unit as the gate itself. Name and username derive
// deterministically from the gate's assigned identifier, so the credential
// can only be built once the gate row exists.
type OperatingCredential struct {
	ID         int64     `json:"id"`
	GateID     int64     `json:"gate_id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	SecretHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ForGate derives the credential identity for a freshly created gate.
func ForGate(gateID int64, secretHash string, now time.Time) *OperatingCredential {
	return &OperatingCredential{
		GateID:     gateID,
		Name:       fmt.Sprintf("GateUser-%d", gateID),
		Username:   fmt.Sprintf("gate%d", gateID),
		Role:       RoleGate,
		SecretHash: secretHash,
		CreatedAt:  now,
	}
}
