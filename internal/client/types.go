package client

import (
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

// ContractView is the lifecycle view returned by GetContract.
type ContractView struct {
	Contract   *repository.Contract  `json:"contract"`
	Blueprint  *repository.Blueprint `json:"blueprint"`
	Locked     bool                  `json:"locked"`
	CanRevoke  bool                  `json:"canRevoke"`
	BadgeClass string                `json:"badgeClass"`
	Actions    []lifecycle.Action    `json:"actions"`
	Timeline   []lifecycle.Step      `json:"timeline"`
}

// ListContractsRequest filters a ListContracts call. Empty fields match
// everything.
type ListContractsRequest struct {
	Group  string `json:"group,omitempty"`
	Status string `json:"status,omitempty"`
	Query  string `json:"q,omitempty"`
}

// ContractList is the response of ListContracts.
type ContractList struct {
	Contracts []*repository.Contract `json:"contracts"`
	Total     int                    `json:"total"`
}

// NewBlueprint is the payload of CreateBlueprint. Field ids are assigned by
// the server.
type NewBlueprint struct {
	Name   string             `json:"name"`
	Fields []repository.Field `json:"fields"`
}
