// Package policy is the single place where access decisions are made.
// Handlers, middleware and services all ask Authorize; no other code
// compares roles or ownership directly.
package policy

import (
	"errors"
	"fmt"

	"github.com/iliyamo/land-looker/internal/model"
)

var (
	// ErrUnauthorized means no authenticated actor was supplied.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the actor is known but not allowed.
	ErrForbidden = errors.New("forbidden")
)

// ReportingRole is the role allowed to read booking statistics.
const ReportingRole = model.RoleWorker

// Action names an operation guarded by the policy.
type Action string

const (
	PropertyRead        Action = "property.read"
	PropertySearch      Action = "property.search"
	PropertySort        Action = "property.sort"
	PropertyCreate      Action = "property.create"
	PropertyUpdate      Action = "property.update"
	PropertyUpdatePrice Action = "property.update_price"
	PropertyDelete      Action = "property.delete"

	LocationRead   Action = "location.read"
	LocationCreate Action = "location.create"
	LocationDelete Action = "location.delete"

	BookingCreate       Action = "booking.create"
	BookingList         Action = "booking.list"
	BookingExport       Action = "booking.export"
	BookingRead         Action = "booking.read"
	BookingUpdate       Action = "booking.update"
	BookingDelete       Action = "booking.delete"
	BookingListAssigned Action = "booking.list_assigned"
	BookingUpdateStatus Action = "booking.update_status"
	BookingStatistics   Action = "booking.statistics"
)

// Actor is the authenticated caller.  A nil *Actor is a guest.
type Actor struct {
	ID   uint64
	Role model.Role
}

// Resource carries the ownership facts of the record being acted upon.
// A nil *Resource asks for the role-only part of a rule.
type Resource struct {
	BuyerID  uint64
	WorkerID uint64
}

// BookingResource builds the resource view of a booking.
func BookingResource(b *model.Booking) *Resource {
	return &Resource{BuyerID: b.BuyerID, WorkerID: b.WorkerID}
}

// Denied is returned for a forbidden action.  It unwraps to ErrForbidden.
type Denied struct {
	Action Action
	Reason string
}

func (d *Denied) Error() string {
	return fmt.Sprintf("%s: %s", d.Action, d.Reason)
}

func (d *Denied) Unwrap() error { return ErrForbidden }

// Message is the client-facing text, e.g. "Unauthorized. Only buyers can
// create bookings."
func (d *Denied) Message() string {
	r := d.Reason
	if r != "" && r[0] >= 'a' && r[0] <= 'z' {
		r = string(r[0]-'a'+'A') + r[1:]
	}
	return "Unauthorized. " + r + "."
}

type rule struct {
	public bool
	roles  []model.Role
	// owner, when set, is evaluated against a non-nil resource.
	owner  func(a *Actor, r *Resource) bool
	reason string
}

func isBuyer(a *Actor, r *Resource) bool  { return a.ID == r.BuyerID }
func isWorker(a *Actor, r *Resource) bool { return a.ID == r.WorkerID }

var rules = map[Action]rule{
	PropertyRead: {public: true},
	LocationRead: {public: true},

	PropertySearch: {roles: []model.Role{model.RoleBuyer}, reason: "only buyers can search properties"},
	PropertySort:   {roles: []model.Role{model.RoleBuyer}, reason: "only buyers can sort properties"},

	PropertyCreate:      {roles: []model.Role{model.RoleWorker}, reason: "only workers can create properties"},
	PropertyUpdate:      {roles: []model.Role{model.RoleWorker}, reason: "only workers can update properties"},
	PropertyUpdatePrice: {roles: []model.Role{model.RoleWorker}, reason: "only workers can update the price"},
	PropertyDelete:      {roles: []model.Role{model.RoleWorker}, reason: "only workers can delete properties"},
	LocationCreate:      {roles: []model.Role{model.RoleWorker}, reason: "only workers can create locations"},
	LocationDelete:      {roles: []model.Role{model.RoleWorker}, reason: "only workers can delete locations"},

	BookingCreate: {roles: []model.Role{model.RoleBuyer}, reason: "only buyers can create bookings"},
	BookingList:   {roles: []model.Role{model.RoleBuyer}, reason: "only buyers can view their bookings"},
	BookingExport: {roles: []model.Role{model.RoleBuyer}, reason: "only buyers can export bookings"},

	// Ownership alone decides these; the role of the buyer of record is
	// not re-checked.
	BookingRead:   {owner: isBuyer, reason: "you can only view your own bookings"},
	BookingUpdate: {owner: isBuyer, reason: "you can only update your own bookings"},
	BookingDelete: {owner: isBuyer, reason: "you can only delete your own bookings"},

	BookingListAssigned: {roles: []model.Role{model.RoleWorker}, reason: "only workers can view assigned bookings"},
	BookingUpdateStatus: {roles: []model.Role{model.RoleWorker}, owner: isWorker, reason: "you can only update bookings assigned to you"},
	BookingStatistics:   {roles: []model.Role{ReportingRole}, reason: "only workers can view booking statistics"},
}

// Authorize decides whether actor may perform action on res.  It returns
// nil when allowed, ErrUnauthorized for a guest on a non-public action,
// and a *Denied otherwise.  Unknown actions are always denied.
func Authorize(actor *Actor, action Action, res *Resource) error {
	rl, ok := rules[action]
	if !ok {
		return &Denied{Action: action, Reason: "unknown action"}
	}
	if rl.public {
		return nil
	}
	if actor == nil || actor.ID == 0 {
		return ErrUnauthorized
	}
	if len(rl.roles) > 0 && !hasRole(actor.Role, rl.roles) {
		return &Denied{Action: action, Reason: rl.reason}
	}
	if rl.owner != nil && res != nil && !rl.owner(actor, res) {
		return &Denied{Action: action, Reason: rl.reason}
	}
	return nil
}

// RoleOnly reports whether the role part of action's rule passes for
// actor.  Middleware uses it before any record has been loaded.
func RoleOnly(actor *Actor, action Action) error {
	return Authorize(actor, action, nil)
}

func hasRole(r model.Role, allowed []model.Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
