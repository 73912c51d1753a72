package gate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// --------------------------------------------------
// Fakes
// --------------------------------------------------

type allowAll struct{}

func (allowAll) Can(*models.User, string) bool { return true }

type fakeResolver struct {
	plan *models.SubscriptionPlan
	err  error
}

func (r fakeResolver) Resolve(context.Context, *models.User) (*models.SubscriptionPlan, error) {
	return r.plan, r.err
}

type fakeUsage struct {
	users        int64
	pets         int64
	appointments int64
	err          error
}

func (u fakeUsage) CountUsers(context.Context, uint) (int64, error) {
	return u.users, u.err
}

func (u fakeUsage) CountPets(context.Context, uint) (int64, error) {
	return u.pets, u.err
}

func (u fakeUsage) CountAppointmentsInMonth(context.Context, uint, time.Time) (int64, error) {
	return u.appointments, u.err
}

func intp(v int) *int { return &v }

func owner() *models.User {
	return &models.User{ID: 1, ClinicID: 7, Role: "owner"}
}

func planWith(users, pets, appointments *int, features ...string) *models.SubscriptionPlan {
	p := &models.SubscriptionPlan{
		Name:             "Test",
		UserLimit:        users,
		PetLimit:         pets,
		AppointmentLimit: appointments,
	}
	for _, slug := range features {
		p.Features = append(p.Features, models.PlanFeature{Slug: slug})
	}
	return p
}

// --------------------------------------------------
// Allowed
// --------------------------------------------------

func TestAllowedQuotaBoundary(t *testing.T) {
	plan := planWith(intp(3), nil, nil)

	cases := []struct {
		users int64
		want  bool
	}{
		{0, true},
		{2, true},
		{3, false}, // at the limit: the next creation is blocked
		{5, false},
	}

	for _, tc := range cases {
		g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{users: tc.users})
		if got := g.Allowed(context.Background(), owner(), ActionCreateUser); got != tc.want {
			t.Errorf("users=%d: Allowed = %v, want %v", tc.users, got, tc.want)
		}
	}
}

func TestAllowedNilLimitIsUnlimited(t *testing.T) {
	plan := planWith(nil, nil, nil)
	g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{users: 100000})

	if !g.Allowed(context.Background(), owner(), ActionCreateUser) {
		t.Error("nil limit should never block")
	}
}

func TestAllowedNoSubscriptionDeniesEverything(t *testing.T) {
	g := New(allowAll{}, fakeResolver{plan: nil}, fakeUsage{})

	actions := []Action{
		ActionCreateUser, ActionCreatePet, ActionCreateAppointment,
		ActionExportData, Action("made_up_action"),
	}
	for _, action := range actions {
		if g.Allowed(context.Background(), owner(), action) {
			t.Errorf("%s: allowed without a subscription", action)
		}
	}
}

func TestAllowedFeatureFlagFallback(t *testing.T) {
	plan := planWith(nil, nil, nil, "export_data")
	g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{})

	if !g.Allowed(context.Background(), owner(), ActionExportData) {
		t.Error("export_data feature on the plan should allow the action")
	}
	if g.Allowed(context.Background(), owner(), ActionAPIAccess) {
		t.Error("api_access not on the plan should be denied")
	}

	// Unknown actions fall through to the same feature lookup.
	if g.Allowed(context.Background(), owner(), Action("telemetry_beta")) {
		t.Error("unknown action should be denied when the plan lacks the flag")
	}
}

func TestAllowedPermissionDeniedBeforePlan(t *testing.T) {
	vet := &models.User{ID: 2, ClinicID: 7, Role: "vet"}
	plan := planWith(nil, nil, nil)

	g := New(RolePermissions{}, fakeResolver{plan: plan}, fakeUsage{})

	if g.Allowed(context.Background(), vet, ActionCreateUser) {
		t.Error("vet role must not create users even on an unlimited plan")
	}
	if !g.Allowed(context.Background(), vet, ActionCreateAppointment) {
		t.Error("vet role should create appointments on an unlimited plan")
	}
}

func TestAllowedInternalErrorsDenySilently(t *testing.T) {
	plan := planWith(intp(10), nil, nil)

	g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{err: errors.New("db down")})
	if g.Allowed(context.Background(), owner(), ActionCreateUser) {
		t.Error("usage error should deny")
	}

	g = New(allowAll{}, fakeResolver{err: errors.New("db down")}, fakeUsage{})
	if g.Allowed(context.Background(), owner(), ActionCreateUser) {
		t.Error("resolver error should deny")
	}
}

func TestAllowedNilUser(t *testing.T) {
	g := New(allowAll{}, fakeResolver{plan: planWith(nil, nil, nil)}, fakeUsage{})
	if g.Allowed(context.Background(), nil, ActionCreatePet) {
		t.Error("nil user should be denied")
	}
}

// --------------------------------------------------
// RestrictionReason
// --------------------------------------------------

func TestRestrictionReasonQuota(t *testing.T) {
	plan := planWith(intp(15), nil, nil)
	g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{users: 15})

	reason := g.RestrictionReason(context.Background(), owner(), ActionCreateUser)
	want := "User limit reached (15/15). Upgrade your plan to add more users."
	if reason != want {
		t.Errorf("reason = %q, want %q", reason, want)
	}
}

func TestRestrictionReasonNoSubscription(t *testing.T) {
	g := New(allowAll{}, fakeResolver{plan: nil}, fakeUsage{})

	reason := g.RestrictionReason(context.Background(), owner(), ActionCreatePet)
	if !strings.Contains(reason, "No active subscription") {
		t.Errorf("reason = %q, want a no-subscription message", reason)
	}
}

func TestRestrictionReasonMissingFeature(t *testing.T) {
	plan := planWith(nil, nil, nil)
	g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{})

	reason := g.RestrictionReason(context.Background(), owner(), ActionCustomBranding)
	if !strings.Contains(reason, "does not include this feature") {
		t.Errorf("reason = %q, want a missing-feature message", reason)
	}
}

func TestRestrictionReasonAllowedActionIsEmpty(t *testing.T) {
	plan := planWith(intp(10), nil, nil)
	g := New(allowAll{}, fakeResolver{plan: plan}, fakeUsage{users: 2})

	if reason := g.RestrictionReason(context.Background(), owner(), ActionCreateUser); reason != "" {
		t.Errorf("reason = %q, want empty for an allowed action", reason)
	}
}
