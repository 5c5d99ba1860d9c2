// Package policy decides whether a principal may perform an operation.
//
// The decision is a pure function of (principal, operation, resource) and knows
// nothing about HTTP. Services call Authorize before every mutating or sensitive
// read and translate the returned error into the caller-visible outcome.
package policy

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the acting identity. The zero value is the anonymous principal.
type Principal struct {
	UserID int64
	Role   Role
}

// Anonymous returns the unauthenticated principal
func Anonymous() Principal {
	return Principal{}
}

func (p Principal) Authenticated() bool {
	return p.UserID != 0
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}

// Resource carries the ownership facts a rule needs. OwnerID is the advertisement
// owner for ad-scoped operations, the author for reviews and favorites.
// SenderID is only meaningful for rent requests.
type Resource struct {
	OwnerID  int64
	SenderID int64
}

type Operation string

const (
	ListAds        Operation = "ads.list"
	RetrieveAd     Operation = "ads.retrieve"
	CreateAd       Operation = "ads.create"
	UpdateAd       Operation = "ads.update"
	DeleteAd       Operation = "ads.delete"
	ApproveAd      Operation = "ads.approve"
	ListPendingAds Operation = "ads.pending"

	ListCategories   Operation = "categories.list"
	RetrieveCategory Operation = "categories.retrieve"
	CreateCategory   Operation = "categories.create"
	UpdateCategory   Operation = "categories.update"
	DeleteCategory   Operation = "categories.delete"

	ListImages    Operation = "images.list"
	RetrieveImage Operation = "images.retrieve"
	CreateImage   Operation = "images.create"
	UpdateImage   Operation = "images.update"
	DeleteImage   Operation = "images.delete"

	CreateRentRequest   Operation = "requests.create"
	ListRentRequests    Operation = "requests.list"
	RetrieveRentRequest Operation = "requests.retrieve"
	AcceptRentRequest   Operation = "requests.accept"
	ListOwnRequests     Operation = "requests.mine"

	CreateFavorite Operation = "favorites.create"
	ListFavorites  Operation = "favorites.list"
	DeleteFavorite Operation = "favorites.delete"

	ListReviews  Operation = "reviews.list"
	CreateReview Operation = "reviews.create"
	DeleteReview Operation = "reviews.delete"

	DashboardStats Operation = "dashboard.stats"

	ListNotifications Operation = "notifications.list"
	ReadNotifications Operation = "notifications.read"
	ViewProfile       Operation = "auth.me"
)

// rule is one row of the policy table
type rule func(p Principal, res *Resource) error

var table = map[Operation]rule{
	ListAds:        public,
	RetrieveAd:     public,
	CreateAd:       authenticated,
	UpdateAd:       ownerOrAdmin,
	DeleteAd:       ownerOrAdmin,
	ApproveAd:      adminOnly,
	ListPendingAds: adminOnly,

	ListCategories:   public,
	RetrieveCategory: public,
	CreateCategory:   adminOnly,
	UpdateCategory:   adminOnly,
	DeleteCategory:   adminOnly,

	ListImages:    public,
	RetrieveImage: public,
	CreateImage:   adminOnly,
	UpdateImage:   adminOnly,
	DeleteImage:   adminOnly,

	CreateRentRequest: authenticated,
	// non-owners are allowed in and see an empty list, see CanSeeRequests
	ListRentRequests:    authenticated,
	RetrieveRentRequest: ownerOrSender,
	AcceptRentRequest:   ownerOnly,
	ListOwnRequests:     authenticated,

	CreateFavorite: authenticated,
	ListFavorites:  authenticated,
	DeleteFavorite: ownerOnly,

	ListReviews:  public,
	CreateReview: authenticated,
	DeleteReview: ownerOrAdmin,

	DashboardStats: adminOnly,

	ListNotifications: authenticated,
	ReadNotifications: authenticated,
	ViewProfile:       authenticated,
}

// Authorize returns nil when p may perform op on res, ErrUnauthenticated when an
// identity is needed and p is anonymous, ErrForbidden otherwise.
// Unknown operations are denied.
func Authorize(p Principal, op Operation, res *Resource) error {
	r, ok := table[op]
	if !ok {
		return fmt.Errorf("%w: unknown operation %q", ErrForbidden, op)
	}
	return r(p, res)
}

// RequireIdentity fails for the anonymous principal. Services use it ahead of
// a lookup whose result feeds an ownership rule.
func RequireIdentity(p Principal) error {
	return authenticated(p, nil)
}

// CanSeeRequests reports whether p may see the rent requests of an advertisement
// owned by ownerID. Everyone else gets an empty list rather than an error so that
// the request count does not leak.
func CanSeeRequests(p Principal, ownerID int64) bool {
	return p.Authenticated() && p.UserID == ownerID
}

func public(Principal, *Resource) error {
	return nil
}

func authenticated(p Principal, _ *Resource) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func adminOnly(p Principal, _ *Resource) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func ownerOnly(p Principal, res *Resource) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if res == nil || res.OwnerID != p.UserID {
		return ErrForbidden
	}
	return nil
}

func ownerOrAdmin(p Principal, res *Resource) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if p.IsAdmin() {
		return nil
	}
	return ownerOnly(p, res)
}

func ownerOrSender(p Principal, res *Resource) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if res != nil && (res.OwnerID == p.UserID || res.SenderID == p.UserID) {
		return nil
	}
	return ErrForbidden
}
