package auth

// Stored user roles. Textual, matching the users.role column.
const (
	RoleAdmin              = "admin"
	RoleHealthProfessional = "health_professional"
	RolePublic             = "public"
)

// Tier is the closed access level the authorization engine works on.
// Stored roles translate to tiers at the boundary; anything unknown
// degrades to the public tier.
type Tier int

const (
	TierPublic Tier = iota
	TierAuth
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierAuth:
		return "auth"
	default:
		return "public"
	}
}

func TierForRole(role string) Tier {
	switch role {
	case RoleAdmin:
		return TierAdmin
	case RoleHealthProfessional:
		return TierAuth
	default:
		return TierPublic
	}
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHealthProfessional, RolePublic:
		return true
	}
	return false
}

type Resource string

const (
	ResourceAlert        Resource = "alert"
	ResourcePublicAlerts Resource = "public_alerts"
	ResourceCase         Resource = "case"
	ResourceCaseHistory  Resource = "case_history"
	ResourceDisease      Resource = "disease"
	ResourceContent      Resource = "content"
	ResourceUser         Resource = "user"
	ResourceStats        Resource = "stats"
	ResourceVerification Resource = "verification"
)

type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type grant struct {
	resource Resource
	action   Action
}

// policy holds the minimum tier per (resource, action). Pairs not listed
// are denied for every tier.
var policy = map[grant]Tier{
	{ResourcePublicAlerts, ActionRead}: TierPublic,
	{ResourceVerification, ActionRead}: TierPublic,

	{ResourceAlert, ActionList}:   TierAuth,
	{ResourceAlert, ActionRead}:   TierAuth,
	{ResourceAlert, ActionCreate}: TierAuth,
	{ResourceAlert, ActionUpdate}: TierAdmin,
	{ResourceAlert, ActionDelete}: TierAdmin,

	{ResourceCase, ActionList}:   TierAuth,
	{ResourceCase, ActionRead}:   TierAuth,
	{ResourceCase, ActionCreate}: TierAuth,
	{ResourceCase, ActionUpdate}: TierAuth,
	{ResourceCase, ActionDelete}: TierAdmin,

	{ResourceCaseHistory, ActionRead}: TierAuth,

	{ResourceDisease, ActionList}:   TierAuth,
	{ResourceDisease, ActionRead}:   TierAuth,
	{ResourceDisease, ActionCreate}: TierAdmin,
	{ResourceDisease, ActionUpdate}: TierAdmin,
	{ResourceDisease, ActionDelete}: TierAdmin,

	{ResourceContent, ActionList}:   TierAdmin,
	{ResourceContent, ActionCreate}: TierAdmin,
	{ResourceContent, ActionUpdate}: TierAdmin,
	{ResourceContent, ActionDelete}: TierAdmin,

	{ResourceUser, ActionList}:   TierAdmin,
	{ResourceUser, ActionUpdate}: TierAdmin,
	{ResourceUser, ActionDelete}: TierAdmin,

	{ResourceStats, ActionRead}: TierAuth,
}

// Authorize answers whether the tier may perform action on resource.
// Unlisted pairs fail closed.
func Authorize(tier Tier, resource Resource, action Action) bool {
	min, ok := policy[grant{resource, action}]
	if !ok {
		return false
	}
	return tier >= min
}
