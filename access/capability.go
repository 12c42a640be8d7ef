// Package access decides what a user may do inside a campaign.
//
// Campaign owners hold every capability. Everybody else gets the fixed
// capability set of their CampaignRole, or nothing when they have no role.
package access

import (
	"fmt"
	"strings"
)

// Capability is a single action that can be granted inside a campaign
type Capability uint8

const (
	ViewCampaign Capability = iota + 1
	ViewPrivate
	EditEntities
	DeleteEntities
	CreatePosts
	RollDice
	ManageMembers
	EditCampaign
	DeleteCampaign
	TransferOwnership

	capabilityEnd // keep last
)

var capabilityNames = [capabilityEnd]string{
	ViewCampaign:      "VIEW_CAMPAIGN",
	ViewPrivate:       "VIEW_PRIVATE",
	EditEntities:      "EDIT_ENTITIES",
	DeleteEntities:    "DELETE_ENTITIES",
	CreatePosts:       "CREATE_POSTS",
	RollDice:          "ROLL_DICE",
	ManageMembers:     "MANAGE_MEMBERS",
	EditCampaign:      "EDIT_CAMPAIGN",
	DeleteCampaign:    "DELETE_CAMPAIGN",
	TransferOwnership: "TRANSFER_OWNERSHIP",
}

// Valid reports whether c is one of the known capabilities
func (c Capability) Valid() bool {
	return c > 0 && c < capabilityEnd
}

func (c Capability) String() string {
	if !c.Valid() {
		return "UNKNOWN"
	}
	return capabilityNames[c]
}

// AllCapabilities lists every known capability in declaration order
func AllCapabilities() []Capability {
	result := make([]Capability, 0, capabilityEnd-1)
	for c := ViewCampaign; c < capabilityEnd; c++ {
		result = append(result, c)
	}
	return result
}

// CapabilitySet is a bit set of capabilities
type CapabilitySet uint32

// Everything is the set held by campaign owners. It also covers capabilities
// that were never assigned to any role.
const Everything = ^CapabilitySet(0)

func NewCapabilitySet(capabilities ...Capability) (s CapabilitySet) {
	for _, c := range capabilities {
		s |= 1 << c
	}
	return
}

func (s CapabilitySet) Has(c Capability) bool {
	return s&(1<<c) != 0
}

// Names returns the names of the known capabilities in the set
func (s CapabilitySet) Names() []string {
	names := []string{}
	for _, c := range AllCapabilities() {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

// Role is the membership level stored on a CampaignRole row
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// Roles lists every role, most privileged first
var Roles = []Role{RoleAdmin, RoleMember, RoleViewer}

var (
	viewerCapabilities = NewCapabilitySet(ViewCampaign)
	memberCapabilities = viewerCapabilities | NewCapabilitySet(ViewPrivate, EditEntities, CreatePosts, RollDice)
	adminCapabilities  = memberCapabilities | NewCapabilitySet(DeleteEntities, ManageMembers, EditCampaign)
)

// Capabilities returns the static capability set of the role.
// DeleteCampaign and TransferOwnership are never part of a role.
func (r Role) Capabilities() CapabilitySet {
	switch r {
	case RoleAdmin:
		return adminCapabilities
	case RoleMember:
		return memberCapabilities
	case RoleViewer:
		return viewerCapabilities
	}
	return 0
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Can reports whether the role alone grants the capability
func (r Role) Can(c Capability) bool {
	return c.Valid() && r.Capabilities().Has(c)
}

// ParseRole accepts role names case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrInvalidInput)
	}
	return r, nil
}
