package gate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// Action is a logical, plan-gated operation name.
type Action string

const (
	ActionCreateUser        Action = "create_user"
	ActionCreatePet         Action = "create_pet"
	ActionCreateAppointment Action = "create_appointment"

	ActionAdvancedFeatures Action = "access_advanced_features"
	ActionExportData       Action = "export_data"
	ActionAPIAccess        Action = "api_access"
	ActionCustomBranding   Action = "custom_branding"
	ActionPrioritySupport  Action = "priority_support"
)

type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourcePets         Resource = "pets"
	ResourceAppointments Resource = "appointments"
)

// Action -> required permission. Adding an action is a table edit.
var actionPermissions = map[Action]string{
	ActionCreateUser:        "users.create",
	ActionCreatePet:         "pets.create",
	ActionCreateAppointment: "appointments.create",
	ActionAdvancedFeatures:  "features.advanced",
	ActionExportData:        "data.export",
	ActionAPIAccess:         "api.access",
	ActionCustomBranding:    "branding.manage",
	ActionPrioritySupport:   "support.priority",
}

// Quota actions map to a numeric per-plan resource limit.
var quotaResources = map[Action]Resource{
	ActionCreateUser:        ResourceUsers,
	ActionCreatePet:         ResourcePets,
	ActionCreateAppointment: ResourceAppointments,
}

var resourceLabels = map[Resource]struct {
	Singular string
	Plural   string
}{
	ResourceUsers:        {"User", "users"},
	ResourcePets:         {"Pet", "pets"},
	ResourceAppointments: {"Appointment", "appointments"},
}

// PermissionChecker is the authorization seam: the gate only consumes the
// decision, never the mechanics behind it.
type PermissionChecker interface {
	Can(user *models.User, permission string) bool
}

// SubscriptionResolver maps a user to the plan currently in force for
// their clinic. A nil plan means no subscription.
type SubscriptionResolver interface {
	Resolve(ctx context.Context, user *models.User) (*models.SubscriptionPlan, error)
}

// UsageCounter computes current usage within the clinic scope.
// Appointments are counted per calendar month.
type UsageCounter interface {
	CountUsers(ctx context.Context, clinicID uint) (int64, error)
	CountPets(ctx context.Context, clinicID uint) (int64, error)
	CountAppointmentsInMonth(ctx context.Context, clinicID uint, ref time.Time) (int64, error)
}

// Gate is the single decision point for "can this user do this action,
// right now, given their plan and current usage". It is a pure predicate:
// every failure mode is a silent denial, never an error surfaced to the
// caller.
type Gate struct {
	perms    PermissionChecker
	resolver SubscriptionResolver
	usage    UsageCounter

	now func() time.Time
}

func New(perms PermissionChecker, resolver SubscriptionResolver, usage UsageCounter) *Gate {
	return &Gate{
		perms:    perms,
		resolver: resolver,
		usage:    usage,
		now:      time.Now,
	}
}

type usageInfo struct {
	count int64
	limit *int
}

// usageFor is the one query both the boolean check and the reason
// formatter consume, so the two can never drift apart.
func (g *Gate) usageFor(
	ctx context.Context,
	clinicID uint,
	resource Resource,
	plan *models.SubscriptionPlan,
) (usageInfo, error) {

	var (
		count int64
		err   error
		limit *int
	)

	switch resource {
	case ResourceUsers:
		count, err = g.usage.CountUsers(ctx, clinicID)
		limit = plan.UserLimit
	case ResourcePets:
		count, err = g.usage.CountPets(ctx, clinicID)
		limit = plan.PetLimit
	case ResourceAppointments:
		count, err = g.usage.CountAppointmentsInMonth(ctx, clinicID, g.now())
		limit = plan.AppointmentLimit
	default:
		return usageInfo{}, fmt.Errorf("unknown resource %q", resource)
	}

	if err != nil {
		return usageInfo{}, err
	}
	return usageInfo{count: count, limit: limit}, nil
}

// Allowed runs the fixed decision pipeline: permission, subscription,
// then quota or feature-flag dispatch.
func (g *Gate) Allowed(ctx context.Context, user *models.User, action Action) bool {
	if user == nil {
		return false
	}

	if perm, ok := actionPermissions[action]; ok {
		if !g.perms.Can(user, perm) {
			return false
		}
	}

	plan, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		log.Println("gate: subscription resolution failed:", err)
		return false
	}
	if plan == nil {
		// No subscription means no access, for every action.
		return false
	}

	if resource, ok := quotaResources[action]; ok {
		u, err := g.usageFor(ctx, user.ClinicID, resource, plan)
		if err != nil {
			log.Println("gate: usage lookup failed:", err)
			return false
		}
		if u.limit == nil {
			return true
		}
		// Reaching the limit exactly blocks the next creation.
		return u.count < int64(*u.limit)
	}

	// Named boolean features and unknown actions share the plan
	// feature-flag lookup.
	return plan.HasFeature(string(action))
}

// RestrictionReason explains a denial in user-facing terms. Callers are
// expected to ask only after Allowed returned false; for an allowed
// action it returns "".
func (g *Gate) RestrictionReason(ctx context.Context, user *models.User, action Action) string {
	if user == nil {
		return "You must be signed in to perform this action."
	}

	if perm, ok := actionPermissions[action]; ok {
		if !g.perms.Can(user, perm) {
			return "You do not have permission to perform this action."
		}
	}

	plan, err := g.resolver.Resolve(ctx, user)
	if err != nil || plan == nil {
		return "No active subscription. Choose a plan to use this feature."
	}

	if resource, ok := quotaResources[action]; ok {
		u, err := g.usageFor(ctx, user.ClinicID, resource, plan)
		if err != nil {
			return "Usage could not be verified. Try again later."
		}
		if u.limit != nil && u.count >= int64(*u.limit) {
			label := resourceLabels[resource]
			return fmt.Sprintf(
				"%s limit reached (%d/%d). Upgrade your plan to add more %s.",
				label.Singular, u.count, *u.limit, label.Plural,
			)
		}
		return ""
	}

	if !plan.HasFeature(string(action)) {
		return "Your current plan does not include this feature. Upgrade your plan to unlock it."
	}
	return ""
}
